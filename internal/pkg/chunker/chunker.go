// Package chunker splits document text into overlapping chunks for indexing.
package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1512
	DefaultChunkOverlap = 256
)

// separators are tried in order; the empty separator splits between runes
var separators = []string{"\n\n", "\n", " ", ""}

// Options configures chunking behavior. Sizes are counted in runes.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
	}
}

func (o Options) normalized() Options {
	if o.ChunkSize <= 0 {
		o = DefaultOptions()
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		o.ChunkOverlap = 0
	}
	return o
}

// Split breaks text into chunks of at most ChunkSize runes, preferring
// paragraph, then line, then word boundaries. Adjacent chunks share up to
// ChunkOverlap runes.
func Split(text string, opts Options) []string {
	opts = opts.normalized()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	return splitRecursive(text, separators, opts)
}

func splitRecursive(text string, seps []string, opts Options) []string {
	sep, rest := seps[len(seps)-1], []string(nil)
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep, rest = s, seps[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, sep)
	}

	var (
		chunks  []string
		pending []string
	)
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if length(piece) <= opts.ChunkSize {
			pending = append(pending, piece)
			continue
		}

		chunks = append(chunks, merge(pending, sep, opts)...)
		pending = nil

		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, splitRecursive(piece, rest, opts)...)
		}
	}
	chunks = append(chunks, merge(pending, sep, opts)...)

	return chunks
}

// merge joins small pieces into chunks, carrying a tail of up to
// ChunkOverlap runes into the next chunk
func merge(pieces []string, sep string, opts Options) []string {
	sepLen := length(sep)

	var (
		chunks  []string
		current []string
		total   int
	)

	joinedLen := func(extra int) int {
		if len(current) == 0 {
			return extra
		}
		return total + sepLen + extra
	}

	for _, piece := range pieces {
		n := length(piece)

		if len(current) > 0 && joinedLen(n) > opts.ChunkSize {
			if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			// keep a tail for overlap that still leaves room for piece
			for len(current) > 0 && (total > opts.ChunkOverlap || joinedLen(n) > opts.ChunkSize) {
				total -= length(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		total += n
	}

	if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
