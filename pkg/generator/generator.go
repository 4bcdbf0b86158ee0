// Package generator produces synthetic consumer records for seeding and for
// exercising the scoring pipeline. Duplicates are derived from originals by
// injecting keyboard-adjacent typos.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/aster/pkg/models"
)

// keyboardAdjacent maps each letter to the keys physically next to it on a
// QWERTY layout. Substitution typos pick from these.
var keyboardAdjacent = map[rune]string{
	'a': "sq", 'b': "vgn", 'c': "xvf", 'd': "sfre", 'e': "wrd",
	'f': "dgrt", 'g': "fhty", 'h': "gyuj", 'i': "uko", 'j': "hnik",
	'k': "jmlo", 'l': "kpo", 'm': "njk", 'n': "bmhj", 'o': "ilp",
	'p': "ol", 'q': "wa", 'r': "etd", 's': "awedx", 't': "rfgy",
	'u': "yhi", 'v': "cfgb", 'w': "qase", 'x': "zsdc", 'y': "tghu",
	'z': "asx",
}

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael",
	"Linda", "William", "Elizabeth", "David", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen", "Daniel",
	"Nancy", "Matthew", "Lisa", "Anthony", "Margaret", "Mark", "Betty",
	"Donald", "Sandra", "Steven", "Ashley", "Paul", "Dorothy", "Andrew",
	"Kimberly", "Joshua", "Emily", "Kenneth", "Donna",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark",
	"Ramirez", "Lewis", "Robinson", "Walker", "Young", "Allen", "King",
}

var emailDomains = []string{
	"example.com", "mail.test", "inbox.example", "post.test",
}

var streetNames = []string{
	"Main Street", "Oak Avenue", "Maple Drive", "Cedar Lane", "Elm Street",
	"Washington Boulevard", "Park Road", "Lake View Court", "Hill Street",
	"River Road",
}

var cities = []string{
	"Springfield", "Riverton", "Fairview", "Franklin", "Greenville",
	"Bristol", "Clinton", "Salem", "Madison", "Georgetown",
}

// Generator produces deterministic synthetic records from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator. The same seed yields the same records.
func New(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Options controls a generation run.
type Options struct {
	Count          int
	DuplicateRatio float64
}

// DefaultOptions returns the standard seed profile.
func DefaultOptions() Options {
	return Options{
		Count:          100,
		DuplicateRatio: 0.2,
	}
}

// Result holds a generation run, with duplicates kept separate so callers
// can verify scoring against the known pairings.
type Result struct {
	Originals  []models.Consumer
	Duplicates []models.Consumer
}

// All returns originals and duplicates interleaved in insertion order.
func (r Result) All() []models.Consumer {
	out := make([]models.Consumer, 0, len(r.Originals)+len(r.Duplicates))
	out = append(out, r.Originals...)
	out = append(out, r.Duplicates...)
	return out
}

// Generate produces Count records for the tenant, of which roughly
// DuplicateRatio are typo'd copies of earlier originals. Duplicates carry
// DuplicateOf pointing at their source so tests can check the pipeline
// rediscovers them.
func (g *Generator) Generate(tenantID string, opts Options) Result {
	if opts.Count <= 0 {
		return Result{}
	}
	if opts.DuplicateRatio < 0 {
		opts.DuplicateRatio = 0
	}
	if opts.DuplicateRatio > 1 {
		opts.DuplicateRatio = 1
	}

	numDuplicates := int(float64(opts.Count) * opts.DuplicateRatio)
	numOriginals := opts.Count - numDuplicates
	if numOriginals == 0 {
		numOriginals = 1
		numDuplicates = opts.Count - 1
	}

	result := Result{
		Originals:  make([]models.Consumer, 0, numOriginals),
		Duplicates: make([]models.Consumer, 0, numDuplicates),
	}

	for i := 0; i < numOriginals; i++ {
		result.Originals = append(result.Originals, g.Original(tenantID))
	}
	for i := 0; i < numDuplicates; i++ {
		base := result.Originals[g.rng.Intn(len(result.Originals))]
		result.Duplicates = append(result.Duplicates, g.Duplicate(base))
	}

	return result
}

// Original produces one fresh consumer record.
func (g *Generator) Original(tenantID string) models.Consumer {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	now := time.Now().UTC()

	return models.Consumer{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		FirstName: first,
		LastName:  last,
		Email: fmt.Sprintf("%s.%s%d@%s",
			strings.ToLower(first), strings.ToLower(last),
			g.rng.Intn(1000), emailDomains[g.rng.Intn(len(emailDomains))]),
		Phone: fmt.Sprintf("(%03d) %03d-%04d",
			200+g.rng.Intn(800), g.rng.Intn(1000), g.rng.Intn(10000)),
		Address: fmt.Sprintf("%d %s, %s",
			1+g.rng.Intn(9999), streetNames[g.rng.Intn(len(streetNames))],
			cities[g.rng.Intn(len(cities))]),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Duplicate copies a base record under a new ID and injects typos. Names get
// one or occasionally two typos, the email at most one, the phone one typo
// 70% of the time. The email domain is never touched so username matching
// stays plausible.
func (g *Generator) Duplicate(base models.Consumer) models.Consumer {
	dup := base
	dup.ID = uuid.New().String()
	src := base.ID
	dup.DuplicateOf = &src
	now := time.Now().UTC()
	dup.CreatedAt = now
	dup.UpdatedAt = now

	intensity := 1
	if g.rng.Intn(4) == 0 {
		intensity = 2
	}

	dup.FirstName = g.IntroduceTypos(dup.FirstName, 1+g.rng.Intn(intensity))
	dup.LastName = g.IntroduceTypos(dup.LastName, 1+g.rng.Intn(intensity))

	if at := strings.IndexByte(dup.Email, '@'); at > 0 {
		dup.Email = g.IntroduceTypos(dup.Email[:at], 1) + dup.Email[at:]
	}
	if g.rng.Float64() < 0.7 {
		dup.Phone = g.IntroduceTypos(dup.Phone, 1)
	}

	return dup
}

// IntroduceTypos applies count random edits to text: keyboard-adjacent
// substitution, deletion, insertion, or transposition of neighbors. Text
// shorter than two runes is returned unchanged.
func (g *Generator) IntroduceTypos(text string, count int) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}

	for i := 0; i < count; i++ {
		if len(runes) < 2 {
			break
		}

		idx := g.rng.Intn(len(runes))
		switch g.rng.Intn(4) {
		case 0: // substitute
			lower := runes[idx]
			if lower >= 'A' && lower <= 'Z' {
				lower += 'a' - 'A'
			}
			if adjacent, ok := keyboardAdjacent[lower]; ok {
				choices := []rune(adjacent)
				runes[idx] = choices[g.rng.Intn(len(choices))]
			} else {
				runes[idx] = rune('a' + g.rng.Intn(26))
			}
		case 1: // delete
			runes = append(runes[:idx], runes[idx+1:]...)
		case 2: // insert
			runes = append(runes[:idx], append([]rune{rune('a' + g.rng.Intn(26))}, runes[idx:]...)...)
		case 3: // transpose
			if idx < len(runes)-1 {
				runes[idx], runes[idx+1] = runes[idx+1], runes[idx]
			}
		}
	}

	return string(runes)
}
