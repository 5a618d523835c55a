package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/ontanj/eigenfaces"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Println("Wrong number of arguments: mode (plain|ckks) training-directory test-directory")
		os.Exit(1)
	}
	mode := os.Args[1]
	training_images, training_labels, err := loadImages(os.Args[2])
	if err != nil {
		fmt.Printf("Error loading training images: %v\n", err)
		os.Exit(1)
	}
	test_images, test_labels, err := loadImages(os.Args[3])
	if err != nil {
		fmt.Printf("Error loading test images: %v\n", err)
		os.Exit(1)
	}
	if len(training_images) == 0 || len(test_images) == 0 {
		fmt.Println("No images found")
		os.Exit(1)
	}

	var cs eigenfaces.Cryptosystem
	var sk eigenfaces.Secret_key
	switch mode {
	case "plain":
		cs, sk = eigenfaces.SetupPlain()
	case "ckks":
		startT := time.Now()
		ckks_cs, ckks_sk, err := eigenfaces.SetupCKKS(eigenfaces.DefaultCKKSParams)
		if err != nil {
			fmt.Printf("Error setting up encryption context: %v\n", err)
			os.Exit(1)
		}
		cs, sk = ckks_cs, ckks_sk
		fmt.Printf("Context setup: %v\n", time.Since(startT))
	default:
		fmt.Printf("Mode %v not available.\n", mode)
		os.Exit(1)
	}
	client := eigenfaces.NewKeyHolder(cs, sk)
	server := eigenfaces.NewEigenfacesServer(eigenfaces.NewSetting(cs, client))

	size := eigenfaces.DefaultImageSize
	normalized_training := eigenfaces.PreprocessImages(training_images, size, size)
	vectorized_training := eigenfaces.VectorizeImages(normalized_training)
	normalized_test := eigenfaces.PreprocessImages(test_images, size, size)

	startT := time.Now()
	training_mats, err := encryptAll(client, normalized_training)
	if err != nil {
		fmt.Printf("Error encrypting training images: %v\n", err)
		os.Exit(1)
	}
	vectorized_mat, err := client.EncryptMatrix(vectorized_training)
	if err != nil {
		fmt.Printf("Error encrypting training images: %v\n", err)
		os.Exit(1)
	}
	test_mats, err := encryptAll(client, normalized_test)
	if err != nil {
		fmt.Printf("Error encrypting test images: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Encryption: %v\n", time.Since(startT))

	startT = time.Now()
	if err := server.Train(training_mats, vectorized_mat); err != nil {
		fmt.Printf("Error during training: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Training: %v\n", time.Since(startT))

	startT = time.Now()
	predicted, err := server.Classify(test_mats, training_labels)
	if err != nil {
		fmt.Printf("Error during classification: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Classification: %v\n", time.Since(startT))

	startT = time.Now()
	if _, err := client.DecryptMatrix(vectorized_mat); err != nil {
		fmt.Printf("Error during decryption: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Decryption: %v\n", time.Since(startT))

	hits := make([]float64, len(predicted))
	for i, label := range predicted {
		fmt.Printf("expected %v, predicted %v\n", test_labels[i], label)
		if label == test_labels[i] {
			hits[i] = 1
		}
	}
	accuracy, err := stats.Mean(hits)
	if err != nil {
		fmt.Printf("Error computing accuracy: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Correctly classified: %.0f%%\n", accuracy*100)
}

func encryptAll(client *eigenfaces.KeyHolder, images [][][]float64) ([]eigenfaces.Matrix, error) {
	mats := make([]eigenfaces.Matrix, len(images))
	var err error
	for i, img := range images {
		mats[i], err = client.EncryptMatrix(img)
		if err != nil {
			return nil, err
		}
	}
	return mats, nil
}

// loadImages reads all images below root; the name of the directory an
// image sits in is its label. Hidden files and directories are
// skipped.
func loadImages(root string) ([]image.Image, []string, error) {
	var images []image.Image
	var labels []string
	directories, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, err
	}
	for _, dir := range directories {
		if !dir.IsDir() || strings.HasPrefix(dir.Name(), ".") {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, dir.Name()))
		if err != nil {
			return nil, nil, err
		}
		for _, file := range files {
			if file.IsDir() || strings.HasPrefix(file.Name(), ".") {
				continue
			}
			f, err := os.Open(filepath.Join(root, dir.Name(), file.Name()))
			if err != nil {
				return nil, nil, err
			}
			img, _, err := image.Decode(f)
			f.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("decoding %v: %w", file.Name(), err)
			}
			images = append(images, img)
			labels = append(labels, dir.Name())
		}
	}
	return images, labels, nil
}
