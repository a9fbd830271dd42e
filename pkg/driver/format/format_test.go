package format

import (
	"strings"
	"testing"

	"github.com/Smattr/rumur/pkg/source"
	"github.com/Smattr/rumur/pkg/util/assert"
)

func Test_Format_RoundTripsSimpleModel_00(t *testing.T) {
	text := `var x: boolean;

startstate "init"
begin
  x := false;
end;

rule "flip"
  true ==> begin
    x := !x;
  end;
`
	file := source.NewSourceFile("test.m", []byte(text))
	out, err := Format(file)
	assert.Equal(t, nil, err)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.True(t, strings.Contains(out, "endstartstate;"))
	assert.True(t, strings.Contains(out, "endrule;"))

	// Reformatting already-formatted output must be a fixed point.
	file2 := source.NewSourceFile("test2.m", []byte(out))
	out2, err := Format(file2)
	assert.Equal(t, nil, err)
	assert.Equal(t, out, out2)
}

func Test_Format_PreservesCommentsExactlyOnce_00(t *testing.T) {
	text := `-- a lonely comment
var x: boolean;
`
	file := source.NewSourceFile("test.m", []byte(text))
	out, err := Format(file)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, strings.Count(out, "-- a lonely comment"))
}

func Test_Format_OffDirectiveLeavesRegionVerbatim_00(t *testing.T) {
	text := `-- murphi-format: off
var    x   :    boolean  ;
-- murphi-format: on
var y: boolean;
`
	file := source.NewSourceFile("test.m", []byte(text))
	out, err := Format(file)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, "var    x   :    boolean  ;"))
	assert.True(t, strings.Contains(out, "var\n  y : boolean;"))
}
