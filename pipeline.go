package mkstft

import (
	"context"
	"errors"
	"sync"
)

const maxWorkers = 4

func (c *Converter) queueFiles(ctx context.Context, files []string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, file := range files {
			// Nothing is queued once cancelled even if a worker is idle
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}
			select {
			case out <- file:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc, nil
}

func (c *Converter) fileWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			err := c.Convert(file)
			if err == nil {
				continue
			}

			attrs := []any{"file", file, "error", err}
			var derr *DecodeError
			if errors.As(err, &derr) && derr.Format != "" {
				attrs = append(attrs, "format", derr.Format)
			}
			c.logger.Error("cannot convert gcode file", attrs...)

			select {
			case errc <- err:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline drains every error channel and joins what it finds
func waitForPipeline(errs ...<-chan error) error {
	var all []error
	for err := range mergeErrors(errs...) {
		if err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Process converts every file, several at a time. A failure with one file
// does not stop the others; every failure is logged and all of them are
// returned joined together.
func (c *Converter) Process(ctx context.Context, files ...string) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	queue, errc, err := c.queueFiles(ctx, files)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	workers := maxWorkers
	if len(files) < workers {
		workers = len(files)
	}

	for i := 0; i < workers; i++ {
		errc, err := c.fileWorker(ctx, queue)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
