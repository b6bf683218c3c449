package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/emmett/voxset/internal/audio"
)

// ErrSampleNotFound is returned when an operation targets a sample
// number with no folder on disk.
var ErrSampleNotFound = errors.New("sample not found")

// Store is the authoritative keeper of on-disk sample identity for one
// base path. Layout: {base}/samples/{NNN}/{n}.wav, {n}.txt and optionally
// {n}_metadata.json, where NNN is the number zero-padded to 3 digits and
// n is the bare integer. Sample numbers are dense: after any completed
// operation the existing numbers are exactly 1..TotalSamples.
//
// A Store assumes exclusive ownership of its tree; two stores pointed at
// the same base path are not guarded against.
type Store struct {
	basePath   string
	samplesDir string
}

// NewStore creates a store rooted at basePath, creating the samples
// directory if needed.
func NewStore(basePath string) (*Store, error) {
	s := &Store{
		basePath:   basePath,
		samplesDir: filepath.Join(basePath, "samples"),
	}
	if err := os.MkdirAll(s.samplesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create samples directory: %w", err)
	}
	return s, nil
}

// BasePath returns the dataset root this store was created with.
func (s *Store) BasePath() string {
	return s.basePath
}

// SamplesDir returns the directory holding the numbered sample folders.
func (s *Store) SamplesDir() string {
	return s.samplesDir
}

// sampleFolder derives the folder path for a number. No other naming
// scheme is valid.
func (s *Store) sampleFolder(number int) string {
	return filepath.Join(s.samplesDir, fmt.Sprintf("%03d", number))
}

func (s *Store) audioPath(number int) string {
	return filepath.Join(s.sampleFolder(number), fmt.Sprintf("%d.wav", number))
}

func (s *Store) textPath(number int) string {
	return filepath.Join(s.sampleFolder(number), fmt.Sprintf("%d.txt", number))
}

func (s *Store) metadataPath(number int) string {
	return filepath.Join(s.sampleFolder(number), fmt.Sprintf("%d_metadata.json", number))
}

// existingNumbers scans the immediate subdirectories of the samples root
// whose names are purely numeric, ascending. The directory scan is the
// counter: recomputing from filesystem state tolerates samples removed
// behind the store's back.
func (s *Store) existingNumbers() []int {
	entries, err := os.ReadDir(s.samplesDir)
	if err != nil {
		return nil
	}

	var numbers []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, ok := parseSampleNumber(entry.Name())
		if !ok {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// parseSampleNumber accepts only all-digit names.
func parseSampleNumber(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextNumber returns the number the next saved sample will get: one past
// the highest existing number, or 1 for an empty dataset. Under the
// contiguity invariant this equals TotalSamples()+1.
func (s *Store) NextNumber() int {
	numbers := s.existingNumbers()
	if len(numbers) == 0 {
		return 1
	}
	return numbers[len(numbers)-1] + 1
}

// TotalSamples returns the count of numeric sample folders.
func (s *Store) TotalSamples() int {
	return len(s.existingNumbers())
}

// Save allocates the next sample number and persists the sample: writes
// the text file, moves the audio file from audioPath into place under
// the canonical name, and writes metadata as JSON when given. Returns
// the assigned number.
//
// Save is not a transaction: a failure mid-way can leave an incomplete
// sample folder behind. It never touches other samples' folders.
func (s *Store) Save(audioPath, text string, metadata *Metadata) (int, error) {
	number := s.NextNumber()
	folder := s.sampleFolder(number)

	if err := os.MkdirAll(folder, 0755); err != nil {
		return 0, fmt.Errorf("failed to create sample folder: %w", err)
	}

	if err := os.WriteFile(s.textPath(number), []byte(text), 0644); err != nil {
		return 0, fmt.Errorf("failed to write text file: %w", err)
	}

	target := s.audioPath(number)
	if audioPath != target {
		if err := moveFile(audioPath, target); err != nil {
			return 0, fmt.Errorf("failed to move audio file: %w", err)
		}
	}

	if metadata != nil {
		data, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if err := os.WriteFile(s.metadataPath(number), data, 0644); err != nil {
			return 0, fmt.Errorf("failed to write metadata file: %w", err)
		}
	}

	return number, nil
}

// SampleInfo returns the on-disk state of one sample, or
// ErrSampleNotFound if its folder does not exist.
func (s *Store) SampleInfo(number int) (*SampleInfo, error) {
	folder := s.sampleFolder(number)
	if _, err := os.Stat(folder); err != nil {
		return nil, fmt.Errorf("sample %d: %w", number, ErrSampleNotFound)
	}

	info := &SampleInfo{
		Number: number,
		Folder: folder,
	}

	if st, err := os.Stat(s.audioPath(number)); err == nil {
		info.HasAudio = true
		info.AudioSize = st.Size()
	}

	if data, err := os.ReadFile(s.textPath(number)); err == nil {
		info.HasText = true
		info.Text = string(data)
		info.TextLength = utf8.RuneCountInString(info.Text)
	}

	if data, err := os.ReadFile(s.metadataPath(number)); err == nil {
		info.HasMetadata = true
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err == nil {
			info.Metadata = &meta
		}
	}

	return info, nil
}

// AllSamples returns every sample's info plus its measured audio
// duration, ascending by number.
func (s *Store) AllSamples() ([]SampleInfo, error) {
	numbers := s.existingNumbers()
	samples := make([]SampleInfo, 0, len(numbers))

	for _, n := range numbers {
		info, err := s.SampleInfo(n)
		if err != nil {
			// Folder disappeared between scan and stat; skip it.
			continue
		}
		if info.HasAudio {
			if dur, err := audio.WAVDuration(s.audioPath(n)); err == nil {
				info.DurationSeconds = dur.Seconds()
			}
		}
		samples = append(samples, *info)
	}

	return samples, nil
}

// EstimateTotalDuration sums each sample's audio duration, read from the
// file's own header, and returns minutes. Missing or corrupt audio files
// are skipped rather than aborting the whole computation. Returns 0 for
// an empty dataset.
func (s *Store) EstimateTotalDuration() float64 {
	var totalSeconds float64
	for _, n := range s.existingNumbers() {
		dur, err := audio.WAVDuration(s.audioPath(n))
		if err != nil {
			continue
		}
		totalSeconds += dur.Seconds()
	}
	return totalSeconds / 60.0
}

// Delete removes the target sample folder entirely, then shifts every
// higher-numbered sample down by one so numbers stay dense. Candidates
// are processed in ascending order of old number: renaming N to N-1
// before N+1 exists at position N, so no rename ever collides.
func (s *Store) Delete(number int) error {
	folder := s.sampleFolder(number)
	if _, err := os.Stat(folder); err != nil {
		return fmt.Errorf("sample %d: %w", number, ErrSampleNotFound)
	}

	if err := os.RemoveAll(folder); err != nil {
		return fmt.Errorf("failed to remove sample folder: %w", err)
	}

	for _, old := range s.existingNumbers() {
		if old <= number {
			continue
		}
		if err := s.renumber(old, old-1); err != nil {
			return err
		}
	}

	return nil
}

// renumber moves a sample folder and its artifacts to a new number.
func (s *Store) renumber(oldNum, newNum int) error {
	oldFolder := s.sampleFolder(oldNum)
	newFolder := s.sampleFolder(newNum)

	if err := os.Rename(oldFolder, newFolder); err != nil {
		return fmt.Errorf("failed to renumber sample %d to %d: %w", oldNum, newNum, err)
	}

	renames := [][2]string{
		{fmt.Sprintf("%d.wav", oldNum), fmt.Sprintf("%d.wav", newNum)},
		{fmt.Sprintf("%d.txt", oldNum), fmt.Sprintf("%d.txt", newNum)},
		{fmt.Sprintf("%d_metadata.json", oldNum), fmt.Sprintf("%d_metadata.json", newNum)},
	}
	for _, r := range renames {
		oldPath := filepath.Join(newFolder, r[0])
		if _, err := os.Stat(oldPath); err != nil {
			continue
		}
		if err := os.Rename(oldPath, filepath.Join(newFolder, r[1])); err != nil {
			return fmt.Errorf("failed to rename %s: %w", r[0], err)
		}
	}

	return nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// two live on different filesystems (temp recordings usually do).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
