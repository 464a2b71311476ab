package ports

// ChangeDetector compares a directory against its cached copy.
//
//go:generate go run go.uber.org/mock/mockgen -source=detector.go -destination=mocks/mock_detector.go -package=mocks
type ChangeDetector interface {
	// HasChanged reports whether localDir differs from cachedDir in any file.
	// A missing cachedDir counts as changed.
	HasChanged(localDir, cachedDir string) bool
}
