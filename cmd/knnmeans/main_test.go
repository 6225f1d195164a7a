package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr, noEnv)
	return stdout.String(), err
}

func TestRun_Usage(t *testing.T) {
	_, err := runCLI(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, "train")
	assert.ErrorIs(t, err, errUsage)

	out, err := runCLI(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "knnmeans classify")

	_, err = runCLI(t, "classify", "-h")
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestRun_Classify(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "0,0,0\n0,1,0\n1,10,10\n1,11,10\n")
	test := writeFile(t, dir, "test.csv", "0,0,1\n1,10,11\n1,1,1\n")
	out := filepath.Join(dir, "condensed.csv.gz")

	stdout, err := runCLI(t, "classify", "-train", train, "-test", test, "-k", "1,3", "-dim", "2",
		"-out", out, "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "k=1: 66.67% (1/3 misclassified)")
	assert.Contains(t, stdout, "k=3: ")

	_, err = os.Stat(out)
	require.NoError(t, err)
}

func TestRun_ClassifyJSON(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "0,0,0\n1,10,10\n")
	test := writeFile(t, dir, "test.csv", "0,1,1\n")

	stdout, err := runCLI(t, "classify", "-train", train, "-test", test, "-k", "1", "-dim", "2",
		"-format", "json", "-metric", "manhattan", "-log-level", "error")
	require.NoError(t, err)

	var report struct {
		Metric  string `json:"metric"`
		Results []struct {
			K        int     `json:"k"`
			Accuracy float64 `json:"accuracy"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "manhattan", report.Metric)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 100.0, report.Results[0].Accuracy)
}

func TestRun_ClassifyErrors(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "0,0,0\n")

	_, err := runCLI(t, "classify", "-train", train)
	assert.ErrorContains(t, err, "-test is required")

	_, err = runCLI(t, "classify", "-train", train, "-test", train, "-k", "a")
	assert.Error(t, err)

	_, err = runCLI(t, "classify", "-train", train, "-test", train, "-metric", "cosine")
	assert.Error(t, err)

	_, err = runCLI(t, "classify", "-train", train, "-test", train, "-format", "xml")
	assert.Error(t, err)

	// Default dimension is 784.
	_, err = runCLI(t, "classify", "-train", train, "-test", train, "-log-level", "error")
	assert.ErrorContains(t, err, "malformed record")
}

func TestRun_Condense(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "0,0,0\n0,1,0\n1,10,10\n1,11,10\n")
	out := filepath.Join(dir, "runs", "condensed.csv")

	stdout, err := runCLI(t, "condense", "-train", train, "-out", out, "-dim", "0", "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "condensed 2 of 4 vectors in 2 passes")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "0,0,0\n1,10,10\n", string(got))
}

func TestRun_Cluster(t *testing.T) {
	dir := t.TempDir()
	var data bytes.Buffer
	for i := 0; i < 8; i++ {
		data.WriteString("0,0,0,0,1\n1,200,200,200,199\n")
	}
	train := writeFile(t, dir, "training_set.csv", data.String())
	centers := filepath.Join(dir, "centers.png")

	stdout, err := runCLI(t, "cluster", "-train", train, "-k", "2", "-iterations", "3", "-dim", "4",
		"-seed", "42", "-quick", "-centers", centers, "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "C-Index k=2:")
	assert.Contains(t, stdout, "Goodman-Kruskal-Index k=2:")

	f, err := os.Open(centers)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	// Two 2x2 tiles and a gutter.
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestRun_ClusterCentersNeedSquareDimension(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "t.csv", "0,0,0\n0,1,1\n1,9,9\n1,10,10\n")
	centers := filepath.Join(dir, "c.png")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"cluster", "-train", train, "-dim", "2", "-k", "2",
		"-iterations", "2", "-seed", "1", "-centers", centers}, &stdout, &stderr, noEnv)
	require.ErrorIs(t, err, errUsage)
	assert.ErrorContains(t, err, "-centers")

	// Rejected before any k-means run.
	assert.Empty(t, stdout.String())
	assert.NotContains(t, stderr.String(), "clustered")
	_, err = os.Stat(centers)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_LogsLocation(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "0,0,0\n1,10,10\n")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"classify", "-train", train, "-test", train, "-k", "1",
		"-dim", "2", "-log-level", "debug"}, &stdout, &stderr, noEnv)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "loading dataset")
	assert.Contains(t, stderr.String(), filepath.Base(train))
}

func TestRun_Render(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "test.csv", "3,0,0,0,0\n7,255,0,0,255\n")
	out := filepath.Join(dir, "seven.png")

	_, err := runCLI(t, "render", "-in", in, "-index", "1", "-out", out, "-dim", "4", "-log-level", "error")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, err = runCLI(t, "render", "-in", in, "-index", "5", "-out", out, "-dim", "4", "-log-level", "error")
	assert.ErrorContains(t, err, "out of range")

	_, err = runCLI(t, "render", "-in", filepath.Join(dir, "missing.csv"), "-out", out, "-dim", "4", "-log-level", "error")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
