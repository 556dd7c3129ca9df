package text

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiEditApplyTo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		edits []Edit
		want  string
	}{
		{"insert", "ab", []Edit{{Offset: 1, Text: "X"}}, "aXb"},
		{"delete", "abc", []Edit{{Offset: 1, Length: 1}}, "ac"},
		{"replace", "a == b", []Edit{{Offset: 2, Length: 2, Text: "!="}}, "a != b"},
		{"unordered", "abc", []Edit{{Offset: 2, Length: 1, Text: "C"}, {Offset: 0, Length: 1, Text: "A"}}, "AbC"},
		{"insertions keep order", "ab", []Edit{{Offset: 1, Text: "1"}, {Offset: 1, Text: "2"}}, "a12b"},
		{"insertion before replacement", "abc", []Edit{{Offset: 1, Length: 1, Text: "B"}, {Offset: 1, Text: "^"}}, "a^Bc"},
		{"adjacent", "abcd", []Edit{{Offset: 0, Length: 2, Text: "x"}, {Offset: 2, Length: 2, Text: "y"}}, "xy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMultiEdit(tt.edits...).ApplyTo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMultiEditErrors(t *testing.T) {
	_, err := NewMultiEdit(Edit{Offset: 0, Length: 3}, Edit{Offset: 2, Length: 1}).ApplyTo("abcd")
	assert.ErrorIs(t, err, ErrOverlap)

	_, err = NewMultiEdit(Edit{Offset: 3, Length: 5}).ApplyTo("abcd")
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewMultiEdit(Edit{Offset: -1}).ApplyTo("abcd")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMapOffset(t *testing.T) {
	m := NewMultiEdit(
		Edit{Offset: 2, Text: "XX"},
		Edit{Offset: 5, Length: 3, Text: "y"},
	)
	assert.Equal(t, 0, m.MapOffset(0))
	assert.Equal(t, 4, m.MapOffset(2))
	assert.Equal(t, 7, m.MapOffset(5))
	assert.Equal(t, 7, m.MapOffset(6))
	assert.Equal(t, 8, m.MapOffset(8))
}

func TestDocumentApplyIsAtomic(t *testing.T) {
	doc := NewDocument("A.java", "class A {}")
	err := doc.Apply(NewMultiEdit(
		Edit{Offset: 6, Text: "B"},
		Edit{Offset: 8, Length: 10, Text: "x"},
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.Equal(t, "class A {}", doc.Content())
	assert.Equal(t, 0, doc.Version())

	require.NoError(t, doc.Apply(NewMultiEdit(Edit{Offset: 6, Length: 1, Text: "B"})))
	assert.Equal(t, "class B {}", doc.Content())
	assert.Equal(t, 1, doc.Version())
}

func TestDocumentCopyIsIndependent(t *testing.T) {
	doc := NewDocument("A.java", "abc")
	cp := doc.Copy()
	require.NoError(t, cp.Apply(NewMultiEdit(Edit{Offset: 0, Length: 1, Text: "z"})))
	assert.Equal(t, "abc", doc.Content())
	assert.Equal(t, "zbc", cp.Content())
}

func TestDocumentLineColumn(t *testing.T) {
	doc := NewDocument("A.java", "ab\n  cd\n\nef")
	tests := []struct {
		offset, line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{8, 2, 0},
		{9, 3, 0},
		{11, 3, 2},
	}
	for _, tt := range tests {
		line, col := doc.LineColumn(tt.offset)
		assert.Equal(t, tt.line, line, "line of %d", tt.offset)
		assert.Equal(t, tt.col, col, "column of %d", tt.offset)
		off, err := doc.Offset(tt.line, tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.offset, off)
	}

	_, err := doc.Offset(7, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = doc.Offset(0, 5)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Equal(t, "  ", doc.LineIndent(6))
}

func TestDocumentConcurrentAccess(t *testing.T) {
	doc := NewDocument("A.java", "")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = doc.Apply(NewMultiEdit(Edit{Offset: 0, Text: "x"}))
				doc.LineColumn(doc.Len())
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, doc.Len())
	assert.Equal(t, 400, doc.Version())
}

func TestUnifiedDiff(t *testing.T) {
	before := "class A {\n    void f() {\n        if (a) {\n            x();\n        }\n    }\n}\n"
	after := strings.Replace(before, "if (a)", "if (!a)", 1)

	out, err := UnifiedDiff("A.java", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "a/A.java")
	assert.Contains(t, out, "b/A.java")
	assert.Contains(t, out, "@@ -1,6 +1,6 @@")
	assert.Contains(t, out, "\n-        if (a) {\n")
	assert.Contains(t, out, "\n+        if (!a) {\n")
	assert.Contains(t, out, "\n     }\n")

	out, err = UnifiedDiff("A.java", before, before)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnifiedDiffMissingFinalNewline(t *testing.T) {
	out, err := UnifiedDiff("A.java", "class A {\n}", "class A {\n}\n")
	require.NoError(t, err)
	assert.Contains(t, out, "\n-}\n\\ No newline at end of file\n")
	assert.Contains(t, out, "\n+}\n")
	assert.Equal(t, 1, strings.Count(out, "No newline"))
}

func TestDocumentApplyIf(t *testing.T) {
	doc := NewDocument("A.java", "class A {}")
	rename := NewMultiEdit(Edit{Offset: 6, Length: 1, Text: "B"})

	err := doc.ApplyIf("class C {}", rename)
	assert.True(t, errors.Is(err, ErrChanged))
	assert.Equal(t, "class A {}", doc.Content())
	assert.Equal(t, 0, doc.Version())

	require.NoError(t, doc.ApplyIf("class A {}", rename))
	assert.Equal(t, "class B {}", doc.Content())
	assert.Equal(t, 1, doc.Version())

	err = doc.ApplyIf("class A {}", rename)
	assert.True(t, errors.Is(err, ErrChanged))
	assert.Equal(t, "class B {}", doc.Content())
}

func TestDocumentApplyIfRacesCommitOnce(t *testing.T) {
	doc := NewDocument("A.java", "class A {}")
	var wg sync.WaitGroup
	var applied atomic.Int32
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if doc.ApplyIf("class A {}", NewMultiEdit(Edit{Offset: 6, Length: 1, Text: "B"})) == nil {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), applied.Load())
	assert.Equal(t, "class B {}", doc.Content())
	assert.Equal(t, 1, doc.Version())
}
