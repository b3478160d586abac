package flows

import (
	"strings"

	"github.com/samber/lo"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/storage"
)

// hackSet is one subject's bundle of memory hacks. The sets are static and
// ordered, so the numbered menu is stable across turns and restarts.
type hackSet struct {
	Subject string
	Hacks   []string
}

var hackSets = []hackSet{
	{
		Subject: "Mathematics",
		Hacks: []string{
			"*BODMAS* keeps order of operations straight: Brackets, Of, Division, Multiplication, Addition, Subtraction. Division and multiplication rank equal, so work left to right.",
			"*SOH CAH TOA* for trig ratios: Sin = Opposite/Hypotenuse, Cos = Adjacent/Hypotenuse, Tan = Opposite/Adjacent. Say it out loud before every trig question.",
			"Sign rules in one line: same signs make positive, different signs make negative. (-3) × (-2) = +6, (-3) × (+2) = -6.",
			"Sing the quadratic formula to *Pop Goes the Weasel*: \"x equals minus b, plus or minus the square root, of b squared minus 4ac, all over 2a\". It sticks for life.",
		},
	},
	{
		Subject: "Physical Sciences",
		Hacks: []string{
			"*OIL RIG* for redox: Oxidation Is Loss of electrons, Reduction Is Gain of electrons.",
			"Metric staircase: *King Henry Died Drinking Chocolate Milk* gives kilo, hecto, deca, base unit, deci, centi, milli. Each step is a factor of 10.",
			"The V-I-R triangle: cover the one you want and the other two show the formula. Cover V and you read I × R.",
			"*ROY G BIV* orders the visible spectrum from longest to shortest wavelength: red, orange, yellow, green, blue, indigo, violet.",
		},
	},
	{
		Subject: "Life Sciences",
		Hacks: []string{
			"*MRS GREN* lists the seven life processes: Movement, Respiration, Sensitivity, Growth, Reproduction, Excretion, Nutrition.",
			"Taxonomy order: *King Phillip Came Over For Good Soup* gives Kingdom, Phylum, Class, Order, Family, Genus, Species.",
			"Mitosis phases: *I Prefer Milk And Tea* gives Interphase, Prophase, Metaphase, Anaphase, Telophase.",
			"Arteries carry blood Away from the heart. Both start with A, so veins must bring it back.",
		},
	},
	{
		Subject: "Geography",
		Hacks: []string{
			"Compass clockwise: *Never Eat Soggy Worms* gives North, East, South, West.",
			"Latitude is *flat*-itude: latitude lines lie flat, longitude lines run long, pole to pole.",
			"Pressure and weather: High pressure, Happy skies. Low pressure, Lousy weather.",
		},
	},
	{
		Subject: "History",
		Hacks: []string{
			"Turn SA dates into a taxi route you ride in order: 1910 Union, 1948 apartheid laws begin, 1976 Soweto rises, 1990 Mandela walks free, 1994 everyone votes.",
			"*PERSIA* unpacks any society: Political, Economic, Religious, Social, Intellectual, Artistic.",
			"For essay causes, build a first-letter chain into a word you can say. A silly word beats a forgotten list.",
		},
	},
}

// MemoryHacksFlow serves the static mnemonic library. It is stateless beyond
// the subscriber being parked on this menu.
type MemoryHacksFlow struct{}

func NewMemoryHacksFlow() *MemoryHacksFlow {
	return &MemoryHacksFlow{}
}

const memoryHacksTail = "Another number for a different subject, or *menu* to go back"

// Enter lists the subjects that have hack sets.
func (f *MemoryHacksFlow) Enter(sub *models.Subscriber) Turn {
	sub.CurrentMenu = models.MenuMemoryHacks
	return Turn{
		Body:   "🧠 *Memory Hacks*\n\nTricks that make facts stick. Pick a subject:\n\n" + numberedList(hackSubjects()),
		Status: models.StatusSuccess,
		Event:  storage.EventMenuSelected,
		EventPayload: map[string]interface{}{
			"menu": string(models.MenuMemoryHacks),
		},
	}
}

// Handle serves the picked subject's hacks, or re-prompts on anything else.
func (f *MemoryHacksFlow) Handle(sub *models.Subscriber, text string) Turn {
	pick, ok := parsePick(text, len(hackSets))
	if !ok {
		return Turn{
			Body:   "Pick a subject by number:\n\n" + numberedList(hackSubjects()),
			Status: models.StatusInvalidSelection,
		}
	}

	set := hackSets[pick-1]
	var b strings.Builder
	b.WriteString("🧠 *" + set.Subject + " hacks*\n")
	for _, hack := range set.Hacks {
		b.WriteString("\n• " + hack + "\n")
	}
	return Turn{
		Body:   b.String(),
		Tail:   memoryHacksTail,
		Status: models.StatusSuccess,
	}
}

func hackSubjects() []string {
	return lo.Map(hackSets, func(s hackSet, _ int) string { return s.Subject })
}
