package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"small program", []byte{0x12, 0x00}, nil},
		{"largest program", make([]byte, vm.MaxProgramSize), nil},
		{"empty file", []byte{}, ErrEmptyROM},
		{"oversized file", make([]byte, vm.MaxProgramSize+1), vm.ErrRomTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTempFile(t, tt.data)

			data, err := New().Load(path)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, len(tt.data), len(data))
		})
	}
}

func TestLoad_Content(t *testing.T) {
	path := createTempFile(t, []byte{0x60, 0x05, 0x12, 0x02})

	data, err := New().Load(path)
	assert.NoError(t, err)
	assert.Len(t, data, 4)
	assert.Equal(t, byte(0x60), data[0])
	assert.Equal(t, byte(0x02), data[3])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
	assert.ErrorContains(t, err, "opening file")
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
