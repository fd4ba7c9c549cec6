package beambar

import _ "embed"

//go:embed VERSION
var Version string

//go:embed beambar.toml
var DefaultConfig string
