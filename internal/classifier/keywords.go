package classifier

import (
	"strings"
	"unicode"

	"github.com/pbaille/postcards/internal/domain"
	"golang.org/x/text/cases"
)

// themeGroup binds a theme to the stems that select it
type themeGroup struct {
	theme    domain.Theme
	keywords []string
}

// themeGroups are checked in order; the first group with a matching stem wins.
// A stem with a leading space only matches at the start of a word.
var themeGroups = []themeGroup{
	{domain.ThemeLove, []string{
		"люб", "целую", "поцелу", "милая", "милый", "милой", "ненаглядн",
		"сердечко", "обнимаю", "родная моя", "родной мой",
	}},
	{domain.ThemeFamily, []string{
		"мама", "мамочк", "папа", "папочк", " мать", "матер", "отец", "отца",
		"сын", "дочь", "дочк", "дочен", " брат", "сестр", "бабушк", "дедушк",
		"семья", "семьи", "семью", "семье", "родител", "дети", "детк",
		"внук", "внучк", "жена", "муж",
	}},
	{domain.ThemeFriendship, []string{
		"дорогой друг", "другу", "друзья", "друзей", "друзьям",
		"дружб", "подруг", "товарищ", "приятел",
	}},
	{domain.ThemeGreeting, []string{
		"поздравл", " с праздник", " с рождеств", " с новым год", " с пасх",
		"христос воскрес", " с днем ангела", " с днем рождения", " с именин",
		"привет", "желаю",
	}},
	{domain.ThemeWork, []string{
		"работ", "служб", "служу", "завод", "фабрик", "должност", "жалован",
		"начальник", "контор",
	}},
	{domain.ThemeStudy, []string{
		"учеб", "учусь", "учител", "школ", "гимнази", "университет",
		"экзамен", "институт", "курсы", "студент", "лекци",
	}},
}

var positiveStems = []string{
	"радост", "обрадова", " рады", " счаст", "хорош", "прекрасн", "весел",
	"люблю", "спасибо", "благодар", "чудесн", "отличн", "замечательн",
	"доволен", "довольн",
}

var negativeStems = []string{
	"грус", "скуча", "тоск", "плох", "болею", "болен", "больн", "болезн",
	"печал", "тяжел", " беда", " беды", " горе", "несчаст", "умер", "смерт",
	"плач", "слез", "трудн", "голод", "войн", "страх", "страш", "жаль", "одинок",
}

// Result holds the derived labels for one text
type Result struct {
	Theme     domain.Theme     `json:"theme"`
	Sentiment domain.Sentiment `json:"sentiment"`
}

// Classify derives both theme and sentiment for text
func Classify(text string) Result {
	folded := fold(text)
	return Result{
		Theme:     themeOf(folded),
		Sentiment: sentimentOf(folded),
	}
}

// Theme returns the first theme whose keywords occur in text, or personal
func Theme(text string) domain.Theme {
	return themeOf(fold(text))
}

// Sentiment compares positive and negative stem occurrences in text
func Sentiment(text string) domain.Sentiment {
	return sentimentOf(fold(text))
}

func themeOf(folded string) domain.Theme {
	for _, g := range themeGroups {
		for _, kw := range g.keywords {
			if strings.Contains(folded, kw) {
				return g.theme
			}
		}
	}
	return domain.ThemePersonal
}

func sentimentOf(folded string) domain.Sentiment {
	pos := countStems(folded, positiveStems)
	neg := countStems(folded, negativeStems)
	switch {
	case pos > neg:
		return domain.SentimentPositive
	case neg > pos:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func countStems(folded string, stems []string) int {
	n := 0
	for _, stem := range stems {
		n += strings.Count(folded, stem)
	}
	return n
}

// fold lower-cases text for matching and reduces it to space separated
// words, padded with a space on both ends; ё is matched as е.
func fold(text string) string {
	folded := strings.ReplaceAll(cases.Fold().String(text), "ё", "е")
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}
