package converter

import (
	"fmt"
	"runtime"
	"sync"

	"obscura/contracts"
)

// Converter decodes a container and re-encodes every decoded frame.
type Converter struct {
	Encoder contracts.FrameEncoder
	Workers int
}

var _ contracts.Converter = (*Converter)(nil)

func New() *Converter {
	return &Converter{
		Encoder: NewPNGEncoder(),
		Workers: max(runtime.NumCPU()-1, 1),
	}
}

func (c *Converter) Convert(data []byte) (*contracts.Output, error) {
	res, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return c.Encode(res)
}

// Encode re-encodes the frames of res. Any encoder failure fails the whole
// call and no partial output is returned.
func (c *Converter) Encode(res *contracts.DecodeResult) (*contracts.Output, error) {
	out := &contracts.Output{
		Images:      make([]contracts.Image, 0, len(res.Images)),
		Errors:      append([]contracts.DecodeError{}, res.Errors...),
		TotalImages: res.Attempts(),
		Metadata:    res.Metadata,
	}
	err := c.EncodeEach(res.Images, func(img contracts.Image) error {
		out.Images = append(out.Images, img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type encodeTask struct {
	position int
	frame    *contracts.CanonicalFrame
}

type encodeResult struct {
	position int
	image    contracts.Image
	err      error
}

func (c *Converter) encodeWorker(taskChan <-chan encodeTask, resultChan chan<- encodeResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range taskChan {
		data, err := c.Encoder.Encode(task.frame)
		if err != nil {
			err = fmt.Errorf("encoding image %d: %w", task.frame.Info.ImageIndex, err)
		}
		resultChan <- encodeResult{
			position: task.position,
			image:    contracts.Image{PNGData: data, Info: task.frame.Info},
			err:      err,
		}
	}
}

// EncodeEach encodes frames on a bounded pool and hands them to emit in
// their original order. The first encoder or emit error stops the feed and
// is returned once the workers drain.
func (c *Converter) EncodeEach(frames []*contracts.CanonicalFrame, emit func(contracts.Image) error) error {
	if len(frames) == 0 {
		return nil
	}
	numWorkers := min(max(c.Workers, 1), len(frames))

	taskChan := make(chan encodeTask)
	resultChan := make(chan encodeResult, numWorkers)
	stop := make(chan struct{})

	wg := &sync.WaitGroup{}
	for range numWorkers {
		wg.Add(1)
		go c.encodeWorker(taskChan, resultChan, wg)
	}

	go func() {
		defer close(taskChan)
		for i, frame := range frames {
			select {
			case taskChan <- encodeTask{position: i, frame: frame}:
			case <-stop:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	resultsBuffer := make(map[int]encodeResult)
	nextIndex := 0
	var firstErr error

	for result := range resultChan {
		if firstErr != nil {
			continue
		}
		if result.err != nil {
			firstErr = result.err
			close(stop)
			continue
		}

		resultsBuffer[result.position] = result
		for {
			result, ok := resultsBuffer[nextIndex]
			if !ok {
				break
			}
			delete(resultsBuffer, nextIndex)
			nextIndex++
			if err := emit(result.image); err != nil {
				firstErr = err
				close(stop)
				break
			}
		}
	}
	return firstErr
}
