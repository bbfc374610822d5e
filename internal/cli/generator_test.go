package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/utils"
)

const foundationSnapshot = `format "v1.0.0"

assembly Windows.Foundation {
    namespace Windows.Foundation {
        [guid("61c17706-2d65-11e0-9ae8-d48564015472")]
        interface IReference<T> {
            get_Value(): T
        }

        struct Point { X: Single, Y: Single }

        [marker]
        attribute WebHostHiddenAttribute;
    }

    namespace Windows.Foundation.Collections {
        [guid("bbe1fa4c-b0e3-4583-baef-1f1b2e483e56")]
        interface IVectorView<T> {
            GetAt(index: UInt32): T
            GetMany(startIndex: UInt32, [out] items: T[]): UInt32
        }
    }
}
`

const devicesSnapshot = `format "v1.1.0"

assembly Windows.Devices {
    namespace Windows.Devices.Midi {
        [guid("79767945-1094-4283-9be0-289fc0ee8334")]
        interface IMidiMessage {
            get_Timestamp(): Windows.Foundation.Point
            get_Names(): Windows.Foundation.Collections.IVectorView<String>
        }
    }
}
`

func writeSnapshots(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func testConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.Metadata = []string{dir}
	cfg.Output = filepath.Join(dir, "out", "gen.rs")
	return cfg
}

func TestGenerator_Run(t *testing.T) {
	dir := writeSnapshots(t, map[string]string{
		"foundation.rtmd": foundationSnapshot,
		"devices.rtmd":    devicesSnapshot,
	})
	cfg := testConfig(dir)

	var log bytes.Buffer
	gen := NewGenerator(utils.NewBufferedDiagnostics(utils.DiagnosticInfo, &log))
	require.NoError(t, gen.Run(cfg, false))

	summary := gen.GetSummary()
	assert.Equal(t, 2, summary.SnapshotsLoaded)
	assert.Equal(t, 2, summary.AssembliesLoaded)
	assert.Equal(t, 4, summary.TypesCataloged)
	assert.Equal(t, 1, summary.TypesSkipped)
	assert.Equal(t, 4, summary.TypesEmitted)
	// 13 primitive and 1 struct IReference instance plus IVectorView<String>
	assert.Equal(t, 15, summary.InstancesConsidered)
	assert.Equal(t, 15, summary.InstancesEmitted)
	assert.Equal(t, cfg.Output, summary.OutputFile)

	out, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, summary.BytesWritten, len(out))

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "// DO NOT MODIFY THIS FILE - IT IS AUTOMATICALLY GENERATED!\n"))
	assert.Contains(t, text, "pub mod midi { // Windows.Devices.Midi\n")
	assert.Contains(t, text, "fn get_names(&mut self) -> Result<ComPtr<::rt::gen::windows::foundation::collections::IVectorView<HString>>>")
	assert.Contains(t, text, "RT_PINTERFACE!{ for IVectorView<HString> => [")
	assert.NotContains(t, text, "WebHostHiddenAttribute")

	for _, phase := range []string{"Load:", "Catalog:", "Collect:", "Emit:"} {
		assert.Contains(t, log.String(), phase)
	}
	assert.Contains(t, log.String(), "4 types cataloged, 1 skipped")
}

func TestGenerator_RunDryRun(t *testing.T) {
	dir := writeSnapshots(t, map[string]string{"foundation.rtmd": foundationSnapshot})
	cfg := testConfig(dir)

	var stdout bytes.Buffer
	gen := NewGenerator(nil)
	gen.SetStdout(&stdout)
	require.NoError(t, gen.Run(cfg, true))

	assert.Contains(t, stdout.String(), "pub mod foundation { // Windows.Foundation\n")
	assert.Equal(t, "-", gen.GetSummary().OutputFile)
	_, err := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(err), "dry runs must not write the output file")
}

func TestGenerator_RunIsDeterministic(t *testing.T) {
	dir := writeSnapshots(t, map[string]string{
		"foundation.rtmd": foundationSnapshot,
		"devices.rtmd":    devicesSnapshot,
	})

	render := func() string {
		var stdout bytes.Buffer
		gen := NewGenerator(nil)
		gen.SetStdout(&stdout)
		require.NoError(t, gen.Run(testConfig(dir), true))
		return stdout.String()
	}
	assert.Equal(t, render(), render())
}

func TestGenerator_Check(t *testing.T) {
	dir := writeSnapshots(t, map[string]string{
		"foundation.rtmd": foundationSnapshot,
		"devices.rtmd":    devicesSnapshot,
	})
	cfg := testConfig(dir)

	gen := NewGenerator(nil)
	require.NoError(t, gen.Check(cfg))

	summary := gen.GetSummary()
	assert.Equal(t, 4, summary.TypesCataloged)
	assert.Zero(t, summary.TypesEmitted)
	_, err := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerator_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  errors.ErrorCode
	}{
		{
			name:  "no snapshots",
			files: map[string]string{"notes.txt": "nothing"},
			code:  errors.ConfigurationErrorCode,
		},
		{
			name:  "closed world violation",
			files: map[string]string{"devices.rtmd": devicesSnapshot},
			code:  errors.LookupErrorCode,
		},
		{
			name:  "unsupported format",
			files: map[string]string{"future.rtmd": `format "v2.0.0"`},
			code:  errors.FormatVersionErrorCode,
		},
		{
			name: "duplicate assembly",
			files: map[string]string{
				"a.rtmd": foundationSnapshot,
				"b.rtmd": foundationSnapshot,
			},
			code: errors.RegistrationErrorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeSnapshots(t, tt.files)
			err := NewGenerator(nil).Run(testConfig(dir), false)
			require.Error(t, err)

			var genErr errors.GenError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.code, genErr.ErrorCode())
		})
	}
}

func TestGenerator_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	err := NewGenerator(nil).Run(cfg, false)

	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "metadata", cfgErr.Field)
}

func TestGenerator_SkippedTypeReferences(t *testing.T) {
	dir := writeSnapshots(t, map[string]string{
		"foundation.rtmd": `format "v1"

assembly Windows.Foundation {
    namespace Windows.Foundation {
        [marker]
        [guid("1b0d3570-0877-5ec2-8a2c-3b9539506aca")]
        interface IInternalMarker { Ping(): Void }

        [guid("4edb8ee2-96dd-49a7-94f7-4607ddab8e3c")]
        interface IUsesMarker { Take(marker: IInternalMarker): Void }
    }
}
`,
	})
	cfg := testConfig(dir)

	gen := NewGenerator(nil)
	require.NoError(t, gen.Check(cfg))
	require.NoError(t, gen.Run(cfg, false))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "marker: &IInspectable")
	assert.NotContains(t, string(data), "interface IInternalMarker")
}
