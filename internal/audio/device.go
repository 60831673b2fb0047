//go:build !test

package audio

import (
	"io"

	"github.com/ebitengine/oto/v3"
)

func openDevice(sampleRate int, src io.Reader) (io.Closer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	p := ctx.NewPlayer(src)
	p.SetBufferSize(bufferSizeBytes10ms)
	p.Play()
	return p, nil
}
