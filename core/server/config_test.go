package server_test

import (
	"testing"

	"tablediff/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimitBytes(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"Configured", 16, 16 * 1024 * 1024},
		{"ZeroFallsBack", 0, 64 * 1024 * 1024},
		{"NegativeFallsBack", -5, 64 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimitBytes())
		})
	}
}
