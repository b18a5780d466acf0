package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// fullScale returns the magnitude of the most negative value of a signed
// PCM word.
func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

func decodeWAV(r io.ReadSeeker) (*interleaved, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("audiofile: invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}

	out := &interleaved{
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		data:       make([]float64, len(buf.Data)),
	}

	// 8-bit WAV is unsigned.
	if bitDepth == 8 {
		for i, v := range buf.Data {
			out.data[i] = float64(v-128) / 128
		}
		return out, nil
	}

	scale := 1 / fullScale(bitDepth)
	for i, v := range buf.Data {
		out.data[i] = float64(v) * scale
	}

	return out, nil
}

// decodeMP3 reads the decoder's 16-bit little-endian stereo output.
func decodeMP3(r io.Reader) (*interleaved, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decoding MP3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decoding MP3: %w", err)
	}

	out := &interleaved{
		sampleRate: dec.SampleRate(),
		channels:   2,
		data:       make([]float64, len(raw)/2),
	}
	for i := range out.data {
		out.data[i] = float64(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768
	}

	return out, nil
}

func decodeFLAC(r io.ReadSeeker) (*interleaved, error) {
	stream, err := flac.NewSeek(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	scale := 1 / fullScale(int(info.BitsPerSample))

	out := &interleaved{
		sampleRate: int(info.SampleRate),
		channels:   channels,
		data:       make([]float64, 0, int(info.NSamples)*channels),
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decoding FLAC frame: %w", err)
		}

		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				out.data = append(out.data, float64(frame.Subframes[ch].Samples[i])*scale)
			}
		}
	}

	return out, nil
}

func decodeOGG(r io.Reader) (*interleaved, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decoding OGG: %w", err)
	}

	out := &interleaved{
		sampleRate: reader.SampleRate(),
		channels:   reader.Channels(),
	}

	block := make([]float32, 4096*out.channels)
	for {
		n, err := reader.Read(block)
		for _, v := range block[:n] {
			out.data = append(out.data, float64(v))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decoding OGG: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return out, nil
}
