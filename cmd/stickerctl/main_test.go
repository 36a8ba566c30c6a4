package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stickers/internal/boardfile"
	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/engine"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputFormat, layerClock = "json", "counter"
	applyWrite, applyContinue, sampleFile = false, false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) (string, *document.InBoard) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.json")
	doc := document.NewSampleBoard("board_1")
	require.NoError(t, boardfile.Save(path, doc))
	return path, doc
}

func TestSampleCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	_, err := run(t, "sample", "--file", path)
	require.NoError(t, err)

	doc, err := boardfile.Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Stickers, 2)
}

func TestRenderCommand(t *testing.T) {
	path, doc := writeSample(t)

	out, err := run(t, "render", path)
	require.NoError(t, err)

	var commands []engine.DrawCommand
	require.NoError(t, json.Unmarshal([]byte(out), &commands))
	require.Len(t, commands, 2)
	assert.Equal(t, doc.Order[0], commands[0].StickerID)

	out, err = run(t, "render", "-o", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "op: image")
}

func TestHitCommand(t *testing.T) {
	path, doc := writeSample(t)

	out, err := run(t, "hit", path, "500", "700")
	require.NoError(t, err)
	var hit engine.HitTestResult
	require.NoError(t, json.Unmarshal([]byte(out), &hit))
	assert.Equal(t, doc.Order[1], hit.StickerID)

	_, err = run(t, "hit", path, "left", "700")
	assert.ErrorContains(t, err, "bad x")
}

func TestApplyCommand(t *testing.T) {
	path, doc := writeSample(t)
	first := doc.Order[0]

	opsPath := filepath.Join(t.TempDir(), "ops.yaml")
	require.NoError(t, os.WriteFile(opsPath, []byte(
		"- type: sticker.translate\n  stickerId: "+first+"\n  dx: 10\n"+
			"- type: sticker.delete\n  stickerId: "+first+"\n"), 0644))

	_, err := run(t, "apply", "--write", path, opsPath)
	require.NoError(t, err)

	saved, err := boardfile.Load(path)
	require.NoError(t, err)
	assert.True(t, saved.Stickers[first].Deleted)
	assert.Equal(t, 210.0, saved.Stickers[first].Transform[4])
}

func TestApplyStopsOnError(t *testing.T) {
	path, _ := writeSample(t)

	opsPath := filepath.Join(t.TempDir(), "ops.json")
	require.NoError(t, os.WriteFile(opsPath, []byte(`[{"type":"sticker.rotate","stickerId":"missing","degrees":5}]`), 0644))

	out, err := run(t, "apply", "--write", path, opsPath)
	assert.ErrorContains(t, err, "board not written")
	assert.Contains(t, out, "sticker not found")
}

func TestBadOutputFormat(t *testing.T) {
	path, _ := writeSample(t)
	_, err := run(t, "render", "-o", "xml", path)
	assert.Error(t, err)
}
