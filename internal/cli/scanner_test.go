package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/errors"
)

func TestSnapshotScanner_ScanSnapshots(t *testing.T) {
	// tempDir/
	//   ├── foundation.rtmd
	//   ├── notes.txt
	//   └── devices/
	//       ├── midi.rtmd
	//       └── sensors/
	//           └── light.rtmd
	tempDir := t.TempDir()
	for _, f := range []string{"foundation.rtmd", "notes.txt", "devices/midi.rtmd", "devices/sensors/light.rtmd"} {
		path := filepath.Join(tempDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(`format "v1"`), 0o644))
	}

	scanner := NewSnapshotScanner()

	t.Run("single file", func(t *testing.T) {
		files, err := scanner.ScanSnapshots([]string{filepath.Join(tempDir, "foundation.rtmd")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(tempDir, "foundation.rtmd")}, files)
	})

	t.Run("directory is not recursive", func(t *testing.T) {
		files, err := scanner.ScanSnapshots([]string{tempDir})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(tempDir, "foundation.rtmd")}, files)
	})

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := scanner.ScanSnapshots([]string{filepath.Join(tempDir, "devices") + "/..."})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(tempDir, "devices", "midi.rtmd"),
			filepath.Join(tempDir, "devices", "sensors", "light.rtmd"),
		}, files)
	})

	t.Run("duplicates are dropped in order", func(t *testing.T) {
		files, err := scanner.ScanSnapshots([]string{
			filepath.Join(tempDir, "devices", "midi.rtmd"),
			tempDir + "/...",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(tempDir, "devices", "midi.rtmd"),
			filepath.Join(tempDir, "devices", "sensors", "light.rtmd"),
			filepath.Join(tempDir, "foundation.rtmd"),
		}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := scanner.ScanSnapshots([]string{filepath.Join(tempDir, "missing.rtmd")})
		var genErr errors.GenError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, errors.FileSystemErrorCode, genErr.ErrorCode())
		assert.Equal(t, "stat", genErr.Context()["operation"])
		assert.Len(t, genErr.Suggestions(), 2)
	})
}
