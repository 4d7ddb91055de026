package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"image-ranker/internal/histogram"
	"image-ranker/internal/imagefile"
)

func main() {
	image1Path := flag.String("img1", "", "Path to first image")
	image2Path := flag.String("img2", "", "Path to second image")
	flag.Parse()

	if *image1Path == "" || *image2Path == "" {
		log.Fatal("Usage: compare_images -img1 <path1> -img2 <path2>")
	}

	fmt.Printf("Comparing images:\n  Image 1: %s\n  Image 2: %s\n\n", *image1Path, *image2Path)

	data1, err := os.ReadFile(*image1Path)
	if err != nil {
		log.Fatalf("Failed to read image 1: %v", err)
	}
	data2, err := os.ReadFile(*image2Path)
	if err != nil {
		log.Fatalf("Failed to read image 2: %v", err)
	}

	img1, err := imagefile.DecodeBytes(*image1Path, data1)
	if err != nil {
		log.Fatalf("Failed to decode image 1: %v", err)
	}
	img2, err := imagefile.DecodeBytes(*image2Path, data2)
	if err != nil {
		log.Fatalf("Failed to decode image 2: %v", err)
	}

	c := compare(data1, data2, img1, img2)

	fmt.Printf("1. FILE HASH COMPARISON:\n")
	fmt.Printf("   Identical files: %v\n\n", c.sameFile)

	fmt.Printf("2. COLOUR HISTOGRAM CORRELATION (8x8x8 bins):\n")
	fmt.Printf("   Score: %.4f\n\n", c.correlation)

	fmt.Printf("3. PERCEPTUAL HASH COMPARISON:\n")
	fmt.Printf("   Hamming Distance: %d bits\n", c.hamming)
	fmt.Printf("   Near duplicate:   %v\n\n", c.nearDuplicate)

	fmt.Printf("SUMMARY:\n  Images are: %s\n", c.verdict())
}

type comparison struct {
	sameFile      bool
	correlation   float64
	hamming       int
	nearDuplicate bool
}

func compare(data1, data2 []byte, img1, img2 image.Image) comparison {
	d1 := histogram.Compute(img1)
	d2 := histogram.Compute(img2)
	return comparison{
		sameFile:      imagefile.FileHash(data1) == imagefile.FileHash(data2),
		correlation:   histogram.Correlation(&d1, &d2),
		hamming:       imagefile.HammingDistance(imagefile.PerceptualHash(img1), imagefile.PerceptualHash(img2)),
		nearDuplicate: imagefile.NearDuplicate(imagefile.Icon(img1), imagefile.Icon(img2)),
	}
}

func (c comparison) verdict() string {
	switch {
	case c.sameFile:
		return "IDENTICAL (same file)"
	case c.nearDuplicate && c.hamming == 0:
		return "IDENTICAL (same content, different files)"
	case c.nearDuplicate:
		return "VERY SIMILAR"
	case c.correlation >= 0.9:
		return "SIMILAR COLOURS"
	default:
		return "DIFFERENT"
	}
}
