package source

import (
	"testing"

	"github.com/Smattr/rumur/pkg/util/assert"
)

func Test_File_PositionCountsLinesAndColumns_00(t *testing.T) {
	f := NewSourceFile("test.m", []byte("var x: boolean;\nvar y: boolean;\n"))
	line, col := f.Position(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = f.Position(17)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
}

func Test_File_SyntaxErrorFormatsFileLineCol_00(t *testing.T) {
	f := NewSourceFile("test.m", []byte("bad input"))
	err := f.SyntaxError(NewSpan(4, 9), "unexpected token")
	assert.Equal(t, "test.m:1:5: unexpected token", err.Error())
}

func Test_File_FindFirstEnclosingLine_00(t *testing.T) {
	f := NewSourceFile("test.m", []byte("first\nsecond\nthird"))
	line := f.FindFirstEnclosingLine(NewSpan(6, 12))
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, "second", line.String())
}

func Test_Span_LengthAndBounds_00(t *testing.T) {
	s := NewSpan(3, 9)
	assert.Equal(t, 3, s.Start())
	assert.Equal(t, 9, s.End())
	assert.Equal(t, 6, s.Length())
}

func Test_Span_InvalidRangePanics_00(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected NewSpan(end < start) to panic")
		}
	}()
	NewSpan(5, 2)
}

func Test_Lexer_ScansDigitsAsManyScanner_00(t *testing.T) {
	scanner := ManyWith[rune](1, '0', '9')
	lexer := NewLexer([]rune("123abc"), scanner)

	assert.True(t, lexer.HasNext())
	tok := lexer.Next()
	assert.Equal(t, uint(1), tok.Kind)
	assert.Equal(t, 3, tok.Span.Length())
	assert.False(t, lexer.HasNext())
}
