package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"hn-news-parser/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateStoryHash returns SHA256(title|url|points) as hex.
func (g *Generator) GenerateStoryHash(s model.Story) string {
	sum := sha256.Sum256([]byte(storyLine(s)))
	return hex.EncodeToString(sum[:])
}

// ResultSetHash fingerprints an ordered result set. Two runs that produced
// the same stories in the same order share a hash.
func (g *Generator) ResultSetHash(stories []model.Story) string {
	h := sha256.New()
	for _, s := range stories {
		_, _ = h.Write([]byte(storyLine(s)))
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyResultSetHash reports whether stories hash to expected.
func (g *Generator) VerifyResultSetHash(expected string, stories []model.Story) bool {
	return g.ResultSetHash(stories) == expected
}

func storyLine(s model.Story) string {
	return fmt.Sprintf("%s|%s|%d", s.Title, s.URL, s.Points)
}
