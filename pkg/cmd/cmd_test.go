package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Smattr/rumur/pkg/util/assert"
)

const sampleModel = `var x: boolean;

startstate
begin
  x := false;
end;

rule "flip"
  true ==>
  begin
    x := !x;
  end;
`

func writeSample(t *testing.T) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.m")
	if err := os.WriteFile(path, []byte(sampleModel), 0644); err != nil {
		t.Fatalf("write sample model: %v", err)
	}
	return path
}

func Test_Murphi2CCommand_WritesToOutputPath_00(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(filepath.Dir(in), "out.c")

	cmd := NewMurphi2CCommand()
	cmd.SetArgs([]string{"-o", out, in})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(out)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(string(got), "#include"))
}

func Test_Murphi2XMLCommand_WritesToOutputPath_00(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(filepath.Dir(in), "out.xml")

	cmd := NewMurphi2XMLCommand()
	cmd.SetArgs([]string{"-o", out, in})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(out)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(string(got), "<murphi-model>"))
}

func Test_MurphiFormatCommand_InPlaceRewritesFile_00(t *testing.T) {
	in := writeSample(t)

	cmd := NewMurphiFormatCommand()
	cmd.SetArgs([]string{"-i", in})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(in)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(string(got), "endrule;"))
}

func Test_Murphi2UclidCommand_WritesToOutputPath_00(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(filepath.Dir(in), "out.ucl")

	cmd := NewMurphi2UclidCommand()
	cmd.SetArgs([]string{"-o", out, in})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(out)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(string(got), "module main {"))
}
