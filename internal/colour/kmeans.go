package colour

import (
	"image"
	"math"
	"math/rand"

	"golang.org/x/image/draw"
)

// KMeansExtractor implements palette extraction using Lloyd's k-means algorithm.
// All randomness comes from a per-call source seeded from the options, so the
// same image always yields the same palette.
type KMeansExtractor struct {
	k             int
	seed          int64
	seedMode      SeedMode
	sampleSize    int
	maxIterations int
}

// NewKMeansExtractor creates a new KMeansExtractor. Zero-valued options fall
// back to the defaults.
func NewKMeansExtractor(opts ExtractorOptions) *KMeansExtractor {
	defaults := DefaultExtractorOptions()
	if opts.SeedMode == "" {
		opts.SeedMode = defaults.SeedMode
	}
	if opts.SampleSize < 1 {
		opts.SampleSize = defaults.SampleSize
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = defaults.MaxIterations
	}
	return &KMeansExtractor{
		k:             PaletteSize,
		seed:          opts.Seed,
		seedMode:      opts.SeedMode,
		sampleSize:    opts.SampleSize,
		maxIterations: opts.MaxIterations,
	}
}

// Extract resamples the image and clusters its pixels into PaletteSize colours.
func (e *KMeansExtractor) Extract(img image.Image) (Palette, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	sampled := Resample(img, e.sampleSize)
	points := flatten(sampled)

	// Flat or near-flat images cannot be split into k clusters, so the
	// distinct colours are repeated to fill the palette.
	if distinct := distinctColours(points, e.k); len(distinct) < e.k {
		palette := make(Palette, e.k)
		for i := range palette {
			palette[i] = distinct[i%len(distinct)]
		}
		return palette, nil
	}

	seed := e.seed
	if e.seedMode == SeedModeContent {
		seed = ContentSeed(sampled)
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic clustering, not security sensitive

	centroids := e.kmeans(points, rng)

	palette := make(Palette, len(centroids))
	for i, c := range centroids {
		palette[i] = RGB{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)}
	}
	return palette, nil
}

// Resample scales an image to a size×size NRGBA image using Catmull-Rom
// interpolation.
func Resample(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distanceSq returns the squared Euclidean distance between two points.
func (p point3D) distanceSq(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return dr*dr + dg*dg + db*db
}

// flatten converts every pixel into a point, ignoring alpha.
func flatten(img *image.NRGBA) []point3D {
	bounds := img.Bounds()
	points := make([]point3D, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			points = append(points, point3D{R: float64(c.R), G: float64(c.G), B: float64(c.B)})
		}
	}
	return points
}

// distinctColours returns up to limit distinct colours in first-seen order.
func distinctColours(points []point3D, limit int) []RGB {
	seen := make(map[RGB]bool, limit)
	distinct := make([]RGB, 0, limit)
	for _, p := range points {
		rgb := RGB{R: uint8(p.R), G: uint8(p.G), B: uint8(p.B)}
		if seen[rgb] {
			continue
		}
		seen[rgb] = true
		distinct = append(distinct, rgb)
		if len(distinct) == limit {
			break
		}
	}
	return distinct
}

// kmeans runs Lloyd's algorithm until no assignment changes or the iteration
// cap is reached. The caller guarantees at least k distinct points.
func (e *KMeansExtractor) kmeans(points []point3D, rng *rand.Rand) []point3D {
	centroids := initializeCentroidsKMeansPlusPlus(points, e.k, rng)

	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}
		if changed == 0 {
			break
		}
		centroids = recalculateCentroids(points, assignments, centroids)
	}

	return centroids
}

// initializeCentroidsKMeansPlusPlus picks initial centroids with the k-means++
// strategy: each new centroid is drawn with probability proportional to its
// squared distance from the nearest centroid chosen so far.
func initializeCentroidsKMeansPlusPlus(points []point3D, k int, rng *rand.Rand) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				minDist = min(minDist, point.distanceSq(centroid))
			}
			distances[i] = minDist
			total += minDist
		}

		next := -1
		target := rng.Float64() * total
		cumulative := 0.0
		for i, dist := range distances {
			if dist == 0 {
				continue
			}
			next = i
			cumulative += dist
			if cumulative >= target {
				break
			}
		}
		if next < 0 {
			// Only reachable with fewer than k distinct points.
			next = len(centroids) % len(points)
		}
		centroids = append(centroids, points[next])
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
// Ties resolve to the lowest index.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, centroid := range centroids {
		if dist := point.distanceSq(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves each centroid to the mean of its assigned points.
// An empty cluster is re-seeded with the point farthest from its own centroid.
func recalculateCentroids(points []point3D, assignments []int, previous []point3D) []point3D {
	k := len(previous)
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	taken := make(map[int]bool)
	for i := range k {
		if counts[i] > 0 {
			n := float64(counts[i])
			centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
			continue
		}

		farthest, farthestDist := -1, -1.0
		for j, point := range points {
			if taken[j] {
				continue
			}
			if d := point.distanceSq(previous[assignments[j]]); d > farthestDist {
				farthest, farthestDist = j, d
			}
		}
		taken[farthest] = true
		centroids[i] = points[farthest]
	}

	return centroids
}
