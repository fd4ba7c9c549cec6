// Package shm allocates anonymous shared memory for wl_shm pools.
package shm

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var ErrSize = errors.New("shm: size must be positive")

// Region is a memfd mapped read/write into this process.
type Region struct {
	fd   int
	data []byte
}

func Allocate(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}

	fd, err := unix.MemfdCreate("beambar", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ftruncate: %w", err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap: %w", err)
	}

	return &Region{fd: fd, data: data}, nil
}

func (r *Region) Fd() uintptr   { return uintptr(r.fd) }
func (r *Region) Bytes() []byte { return r.data }
func (r *Region) Size() int     { return len(r.data) }

// Close unmaps the region and closes the descriptor. The compositor keeps
// its own mapping of any pool created from it.
func (r *Region) Close() error {
	var errs []error
	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			errs = append(errs, fmt.Errorf("munmap: %w", err))
		}
		r.data = nil
	}
	if r.fd >= 0 {
		if err := unix.Close(r.fd); err != nil {
			errs = append(errs, fmt.Errorf("close: %w", err))
		}
		r.fd = -1
	}
	return errors.Join(errs...)
}
