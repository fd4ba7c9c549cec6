package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"resty.dev/v3"
)

type Client struct {
	rest *resty.Client
}

func NewClient(path string) *Client {
	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", path)
			},
		},
	})

	client.SetBaseURL("http://beambar")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "beambar")

	return &Client{rest: client}
}

func (c *Client) Status() (*StatusResponse, error) {
	result := StatusResponse{}

	response, err := c.rest.R().SetResult(&result).Get("/status")
	if err != nil {
		return nil, fmt.Errorf("error pinging socket: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error pinging socket: %s", response.Status())
	}
	return &result, nil
}

func (c *Client) Stop() error {
	response, err := c.rest.R().Post("/stop")
	if err != nil {
		return err
	}
	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("error sending stop: %s", response.Status())
	}
	return nil
}

func SendStatus() (*StatusResponse, error) {
	return NewClient(SocketPath()).Status()
}

func SendStop() error {
	return NewClient(SocketPath()).Stop()
}
