// Command knnmeans classifies, condenses and clusters labeled pixel vectors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, errUsage):
		if err != errUsage {
			fmt.Fprintln(os.Stderr, "knnmeans:", err)
		}
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "knnmeans:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	env := &cli{stdout: stdout, stderr: stderr, getenv: getenv}

	switch args[0] {
	case "classify":
		return env.classify(ctx, args[1:])
	case "condense":
		return env.condense(ctx, args[1:])
	case "cluster":
		return env.cluster(ctx, args[1:])
	case "render":
		return env.render(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "knnmeans - KNN classification and k-means clustering of labeled vectors")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  knnmeans classify  - Classify a test set with k nearest neighbors")
	fmt.Fprintln(w, "  knnmeans condense  - Reduce a training set with condensed nearest neighbor")
	fmt.Fprintln(w, "  knnmeans cluster   - Run k-means and score the clusters")
	fmt.Fprintln(w, "  knnmeans render    - Render a record as a PNG image")
	fmt.Fprintln(w, "\nLocations are local paths, s3://bucket/key or minio://host:port/bucket/key.")
	fmt.Fprintln(w, "\nExamples:")
	fmt.Fprintln(w, "  knnmeans classify -train train.csv -test test.csv -k 1,3,5 -condense")
	fmt.Fprintln(w, "  knnmeans condense -train s3://datasets/train.csv.zst -out condensed.csv")
	fmt.Fprintln(w, "  knnmeans cluster -train training_set.csv -k 5,7,9 -iterations 50 -quick")
	fmt.Fprintln(w, "  knnmeans render -in test.csv -index 7 -out seven.png")
}
