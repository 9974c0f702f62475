package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/allora-network/cosmos-txn-decoder/decoder"
	"github.com/ava-labs/libevm/common"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

type jobKind string

const (
	jobTx    jobKind = "tx"
	jobBlock jobKind = "block"
)

type job struct {
	Kind jobKind
	Hash common.Hash
}

// parseJobList reads one hash per line. A line may start with "tx" or
// "block" to pick the lookup; bare hashes are transactions. Blank lines and
// lines starting with '#' are skipped.
func parseJobList(r io.Reader) ([]job, error) {
	var jobs []job
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		kind, hashStr := jobTx, line
		if fields := strings.Fields(line); len(fields) == 2 {
			kind, hashStr = jobKind(strings.ToLower(fields[0])), fields[1]
		} else if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: too many fields", lineNo)
		}
		if kind != jobTx && kind != jobBlock {
			return nil, fmt.Errorf("line %d: unknown kind %q", lineNo, kind)
		}

		hash, err := decoder.ParseHash(hashStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		jobs = append(jobs, job{Kind: kind, Hash: hash})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func jobsFromHashes(kind jobKind, hashes []string) ([]job, error) {
	jobs := make([]job, 0, len(hashes))
	for _, h := range hashes {
		hash, err := decoder.ParseHash(h)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, h, err)
		}
		jobs = append(jobs, job{Kind: kind, Hash: hash})
	}
	return jobs, nil
}

// runJobs fans jobs out to workersNum workers and returns the number of
// failed jobs. Jobs not yet started when ctx is cancelled are dropped.
func runJobs(ctx context.Context, jobs []job, workersNum uint, bar *progressbar.ProgressBar, handle func(context.Context, job) error) int {
	if workersNum == 0 {
		workersNum = 1
	}

	jobsChan := make(chan job, workersNum)
	var failed atomic.Int64
	wg := sync.WaitGroup{}

	for w := uint(0); w < workersNum; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobsChan {
				if err := handle(ctx, j); err != nil {
					failed.Add(1)
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

feed:
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutdown signal received, draining workers...")
			break feed
		case jobsChan <- j:
		}
	}
	close(jobsChan)
	wg.Wait()

	return int(failed.Load())
}
