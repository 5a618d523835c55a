package eigenfaces

import (
	"fmt"
)

// The EigenfacesServer is the computation engine: it runs training and
// classification on values it cannot decrypt, calling back into the
// key holder's oracle for the few steps that need plaintext
// visibility. It holds the oracle interface, never key material.
type EigenfacesServer struct {
	is_trained                bool
	eigenfaces                Matrix
	mean_face                 Vector
	projected_training_images Matrix
	setting                   Setting
}

func NewEigenfacesServer(setting Setting) *EigenfacesServer {
	return &EigenfacesServer{setting: setting}
}

// Train computes the mean face, derives the eigenface basis with PCA
// and stores the projections of the training images. Each training
// image is given both as its pixel matrix and as its flattened vector,
// row i of vectorized_images corresponding to normalized_images[i].
// Calling Train again overwrites the model; there is no merge.
func (s *EigenfacesServer) Train(normalized_images []Matrix, vectorized_images Matrix) error {
	if len(normalized_images) == 0 || vectorized_images.rows == 0 || vectorized_images.cols == 0 {
		return fmt.Errorf("train: %w", ErrEmptyInput)
	}
	if len(normalized_images) != vectorized_images.rows {
		return shapeError("train: image count", vectorized_images.rows, len(normalized_images))
	}
	mean, err := VectorMean(vectorized_images, s.setting)
	if err != nil {
		return err
	}
	s.mean_face = mean
	eigenfaces, err := s.pca(vectorized_images)
	if err != nil {
		return err
	}
	s.eigenfaces = eigenfaces
	projected, err := s.project(normalized_images, s.eigenfaces, s.mean_face)
	if err != nil {
		return err
	}
	s.projected_training_images = projected
	s.is_trained = true
	return nil
}

// Classify projects each query image into the component space, finds
// the stored training projection at minimum Euclidean distance through
// the key holder's argmin oracle and returns the label at that index.
// The label list is index-aligned with the training rows and never
// mutated.
func (s *EigenfacesServer) Classify(test_images []Matrix, training_labels []string) ([]string, error) {
	if !s.is_trained {
		return nil, fmt.Errorf("classify: %w", ErrNotTrained)
	}
	if len(test_images) == 0 {
		return nil, fmt.Errorf("classify: %w", ErrEmptyInput)
	}
	if len(training_labels) != s.projected_training_images.rows {
		return nil, fmt.Errorf("classify: %d labels for %d training images: %w",
			len(training_labels), s.projected_training_images.rows, ErrLabelMismatch)
	}
	q, err := s.project(test_images, s.eigenfaces, s.mean_face)
	if err != nil {
		return nil, err
	}
	m := s.projected_training_images.rows
	labels := make([]string, q.rows)
	for i := 0; i < q.rows; i += 1 {
		distances := make([]Value, m)
		for j := 0; j < m; j += 1 {
			distances[j], err = EuclideanDistance(s.projected_training_images.Row(j), q.Row(i), s.setting)
			if err != nil {
				return nil, err
			}
		}
		index, err := s.setting.oracle.MinimumIndex(distances)
		if err != nil {
			return nil, err
		}
		labels[i] = training_labels[index]
	}
	return labels, nil
}

// pca derives the component basis capturing the key holder's variance
// threshold. For the wide case (sample count <= dimensionality, the
// expected regime for face images) the covariance is the small X Xᵀ
// and the eigenvectors are projected back through Xᵀ and normalized.
// Eigenvectors are rows throughout.
func (s *EigenfacesServer) pca(X Matrix) (Matrix, error) {
	n, d := X.rows, X.cols
	neg_mu, err := VecNeg(s.mean_face, s.setting)
	if err != nil {
		return Matrix{}, err
	}
	centered := NewMatrix(n, d, nil)
	for i := 0; i < n; i += 1 {
		row, err := VecAdd(X.Row(i), neg_mu, s.setting)
		if err != nil {
			return Matrix{}, err
		}
		for j, v := range row {
			centered.Set(i, j, v)
		}
	}
	var lambdas Vector
	var W Matrix
	if n > d {
		C, err := MatMul(Transpose(centered), centered, s.setting)
		if err != nil {
			return Matrix{}, err
		}
		lambdas, W, err = PowerEigen(C, s.setting)
		if err != nil {
			return Matrix{}, err
		}
	} else {
		C, err := MatMul(centered, Transpose(centered), s.setting)
		if err != nil {
			return Matrix{}, err
		}
		lambdas, W, err = PowerEigen(C, s.setting)
		if err != nil {
			return Matrix{}, err
		}
		// back-project: row i becomes wᵢᵀ·X, an eigenvector of XᵀX
		W, err = MatMul(W, centered, s.setting)
		if err != nil {
			return Matrix{}, err
		}
		for i := 0; i < W.rows; i += 1 {
			row := W.Row(i)
			nrm, err := VecNorm(row, s.setting)
			if err != nil {
				return Matrix{}, err
			}
			row, err = VecDiv(row, nrm, s.setting)
			if err != nil {
				return Matrix{}, err
			}
			for j, v := range row {
				W.Set(i, j, v)
			}
		}
	}
	k, err := s.setting.oracle.ComponentCount(lambdas)
	if err != nil {
		return Matrix{}, err
	}
	if k > W.rows {
		k = W.rows
	}
	eig_vec := make([]Value, 0, k*W.cols)
	for i := 0; i < k; i += 1 {
		eig_vec = append(eig_vec, W.Row(i)...)
	}
	return NewMatrix(k, W.cols, eig_vec), nil
}

// project flattens each image, subtracts the mean and maps the result
// into the component space.
func (s *EigenfacesServer) project(images []Matrix, W Matrix, mu Vector) (Matrix, error) {
	neg_mu, err := VecNeg(mu, s.setting)
	if err != nil {
		return Matrix{}, err
	}
	values := make([]Value, 0, len(images)*W.rows)
	for _, img := range images {
		flat := flattenImage(img)
		if len(flat) != len(mu) {
			return Matrix{}, shapeError("projection", len(mu), len(flat))
		}
		centered, err := VecAdd(flat, neg_mu, s.setting)
		if err != nil {
			return Matrix{}, err
		}
		p, err := MatVecMul(W, centered, s.setting)
		if err != nil {
			return Matrix{}, err
		}
		values = append(values, p...)
	}
	return NewMatrix(len(images), W.rows, values), nil
}

func flattenImage(m Matrix) Vector {
	flat := make(Vector, 0, m.rows*m.cols)
	for i := 0; i < m.rows; i += 1 {
		flat = append(flat, m.Row(i)...)
	}
	return flat
}
