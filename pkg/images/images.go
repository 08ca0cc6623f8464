// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package images decodes image files into pixel tensors shaped `[height, width, 3]`.
//
// Whatever the source color model (greyscale, palette, CMYK, with alpha), the tensor
// always has 3 channels (RGB); greyscale images get the same value on all 3 channels.
package images

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Channels is the number of channels of every Tensor.
const Channels = 3

// Tensor holds the pixels of one image as uint8, in row-major order
// with the channels last: value (y, x, c) is at `Data[(y*Width+x)*Channels+c]`.
type Tensor struct {
	Height, Width int
	Data          []uint8
}

// NewTensor creates a zeroed tensor for an image of the given size.
func NewTensor(height, width int) *Tensor {
	return &Tensor{Height: height, Width: width, Data: make([]uint8, height*width*Channels)}
}

// Shape returns `[height, width, channels]`.
func (t *Tensor) Shape() []int {
	return []int{t.Height, t.Width, Channels}
}

// At returns the value at row y, column x and channel c.
func (t *Tensor) At(y, x, c int) uint8 {
	return t.Data[(y*t.Width+x)*Channels+c]
}

// Decode opens and decodes the image file in path. It returns the format name
// registered by the decoder ("jpeg", "png", ...).
func Decode(path string) (img image.Image, format string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to open image %q", path)
	}
	defer func() { _ = f.Close() }()
	img, format, err = image.Decode(f)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to decode image %q", path)
	}
	return img, format, nil
}

// FromImage converts img to a Tensor, normalizing the channels to RGB.
func FromImage(img image.Image) *Tensor {
	bounds := img.Bounds()
	t := NewTensor(bounds.Dy(), bounds.Dx())
	pos := 0
	switch src := img.(type) {
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				v := src.GrayAt(x, y).Y
				t.Data[pos], t.Data[pos+1], t.Data[pos+2] = v, v, v
				pos += Channels
			}
		}
	case *image.Gray16:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				v := uint8(src.Gray16At(x, y).Y >> 8)
				t.Data[pos], t.Data[pos+1], t.Data[pos+2] = v, v, v
				pos += Channels
			}
		}
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, y):]
			for x := 0; x < bounds.Dx(); x++ {
				copy(t.Data[pos:pos+Channels], row[x*4:x*4+Channels])
				pos += Channels
			}
		}
	case *image.YCbCr:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := src.YCbCrAt(x, y)
				t.Data[pos], t.Data[pos+1], t.Data[pos+2] = color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				pos += Channels
			}
		}
	default:
		// Palette, CMYK, RGBA and others: go through the non-premultiplied model.
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				t.Data[pos], t.Data[pos+1], t.Data[pos+2] = c.R, c.G, c.B
				pos += Channels
			}
		}
	}
	return t
}

// ToImage converts the tensor back to an opaque image.
func (t *Tensor) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for ii := 0; ii < t.Height*t.Width; ii++ {
		copy(img.Pix[ii*4:ii*4+Channels], t.Data[ii*Channels:(ii+1)*Channels])
		img.Pix[ii*4+3] = 0xFF
	}
	return img
}

// Load decodes the image file in path and converts it to a Tensor.
func Load(path string) (*Tensor, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Resize returns t resized to width x height (ignoring the aspect ratio) using
// the Lanczos filter. If t already has the target size it is returned as is.
func Resize(t *Tensor, width, height int) *Tensor {
	if t.Width == width && t.Height == height {
		return t
	}
	return FromImage(imaging.Resize(t.ToImage(), width, height, imaging.Lanczos))
}

// ResizeAll resizes every tensor in place in the slice.
func ResizeAll(tensors []*Tensor, width, height int) {
	for ii, t := range tensors {
		tensors[ii] = Resize(t, width, height)
	}
}
