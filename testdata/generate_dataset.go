//go:build ignore

// Sample dataset generator for trying out index build and search.
//
//	go run testdata/generate_dataset.go [dir]
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	dir := "image_data"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(err)
	}

	solid := map[string]color.RGBA{
		"red.png":    {R: 255, A: 255},
		"blue.png":   {B: 255, A: 255},
		"forest.jpg": {R: 34, G: 139, B: 34, A: 255},
	}
	for name, c := range solid {
		write(filepath.Join(dir, name), blocks(200, 200, []color.RGBA{c}))
	}

	// Eight colour blocks in a 2x4 grid: more colours than a palette holds.
	write(filepath.Join(dir, "blocks.png"), blocks(400, 400, []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
		{R: 255, B: 255, A: 255},
		{G: 255, B: 255, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
		{R: 255, G: 128, A: 255},
	}))

	sunset := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := range 240 {
		for x := range 320 {
			sunset.Set(x, y, color.RGBA{R: 255, G: uint8(200 - y*200/240), B: uint8(x * 80 / 320), A: 255})
		}
	}
	write(filepath.Join(dir, "sunset.jpg"), sunset)

	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0o600); err != nil {
		panic(err)
	}

	fmt.Println("Sample dataset created:", dir)
}

// blocks fills a width x height image with colours in a 2-column grid.
func blocks(width, height int, colours []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cols := min(2, len(colours))
	rows := (len(colours) + cols - 1) / cols
	blockWidth, blockHeight := width/cols, height/rows

	for i, c := range colours {
		row, col := i/cols, i%cols
		for y := row * blockHeight; y < (row+1)*blockHeight; y++ {
			for x := col * blockWidth; x < (col+1)*blockWidth; x++ {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

func write(path string, img image.Image) {
	file, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if filepath.Ext(path) == ".jpg" {
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 95})
	} else {
		err = png.Encode(file, img)
	}
	if err != nil {
		panic(err)
	}
}
