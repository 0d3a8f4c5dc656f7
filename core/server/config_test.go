package server_test

import (
	"testing"

	"delivery-admin/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":8081", server.Config{Port: "8081"}.Addr())
}

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		kb   int
		want int
	}{
		{"Default", 0, 256 * 1024},
		{"Negative", -1, 256 * 1024},
		{"Custom", 64, 64 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.Config{BodyLimitKB: tt.kb}.BodyLimit())
		})
	}
}
