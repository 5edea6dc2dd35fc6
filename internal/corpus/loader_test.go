package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadConcatenatesInFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"title":"저축","content":"저축은 습관입니다","book":"a"}]`)
	writeFile(t, dir, "b.json", `[{"title":"대출","content":"대출은 위험합니다"},{"content":"세금"}]`)

	c := Load(context.Background(), NewLocalSource(dir), []string{"b.json", "a.json"})
	require.Equal(t, 3, c.Len())
	require.Equal(t, "대출", c.Chunks()[0].Title)
	require.Equal(t, "세금", c.Chunks()[1].Content)
	require.Equal(t, "저축", c.Chunks()[2].Title)
}

func TestLoadSkipsMissingAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `[{"content":"연금은 노후 준비"}]`)
	writeFile(t, dir, "broken.json", `[{"content":`)
	writeFile(t, dir, "wrong.json", `{"content":"not an array"}`)
	writeFile(t, dir, "typed.json", `[{"content":42}]`)

	c := Load(context.Background(), NewLocalSource(dir),
		[]string{"missing.json", "broken.json", "wrong.json", "typed.json", "good.json"})
	require.Equal(t, 1, c.Len())
	require.Equal(t, "연금은 노후 준비", c.Chunks()[0].Content)
}

func TestLoadDropsEmptyContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.json", `[{"title":"빈 항목","content":"  "},{"title":"정상","content":"내용"}]`)

	c := Load(context.Background(), NewLocalSource(dir), []string{"x.json"})
	require.Equal(t, 1, c.Len())
	require.Equal(t, "정상", c.Chunks()[0].Title)
}

func TestLoadAcceptsNullOptionalFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rag_chunks.json", `[
		{"content":"저축은 습관입니다","title":"저축"},
		{"content":"대출은 위험합니다","title":null,"source":null,"category":null,"type":null,"book":null},
		{"content":null,"title":"빈 항목"}
	]`)

	c := Load(context.Background(), NewLocalSource(dir), []string{"rag_chunks.json"})
	require.Equal(t, 2, c.Len())
	require.Equal(t, "", c.Chunks()[1].Title)
	require.Equal(t, "", c.Chunks()[1].Book)
	require.Equal(t, "대출은 위험합니다", c.Chunks()[1].Content)
}

func TestLoadNoFiles(t *testing.T) {
	c := Load(context.Background(), NewLocalSource(t.TempDir()), nil)
	require.Equal(t, 0, c.Len())
	require.Empty(t, c.Chunks())
}

func TestLocalSourceRejectsTraversal(t *testing.T) {
	src := NewLocalSource(t.TempDir())
	_, err := src.Open(context.Background(), "../etc/passwd")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotExist)
}

func TestNewSourceRegistry(t *testing.T) {
	src, err := NewSource("LOCAL", map[string]interface{}{"dir": t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, "local", src.Type())

	_, err = NewSource("ftp", nil)
	require.Error(t, err)

	_, err = NewSource("local", map[string]interface{}{})
	require.Error(t, err)
}

func TestNewCorpusCopiesInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"content":"하나"}]`)
	c := Load(context.Background(), NewLocalSource(dir), []string{"a.json"})
	chunks := c.Chunks()
	c2 := NewCorpus(chunks)
	chunks[0].Content = "changed"
	require.Equal(t, "하나", c2.Chunks()[0].Content)
}

func TestNilCorpus(t *testing.T) {
	var c *Corpus
	require.Equal(t, 0, c.Len())
	require.Nil(t, c.Chunks())
}

func TestBuildEndpoint(t *testing.T) {
	require.Equal(t, "", buildEndpoint(" ", false))
	require.Equal(t, "http://minio:9000", buildEndpoint("minio:9000", false))
	require.Equal(t, "https://s3.local", buildEndpoint("s3.local/", true))
	require.Equal(t, "https://x.io", buildEndpoint("https://x.io", false))
}
