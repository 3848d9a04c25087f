package assistant

import (
	"fmt"
	"strings"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/matching"
	"github.com/trezcool/tawjih/core/score"
)

type Intent string

const (
	IntentUniversity Intent = "university"
	IntentField      Intent = "field"
	IntentMap        Intent = "map"
	IntentCalculator Intent = "calculator"
	IntentStart      Intent = "start"
	IntentFallback   Intent = "fallback"
)

// Rule maps keywords to an intent. Field rules also name the stream they point at.
type Rule struct {
	Intent   Intent
	Keywords []string
	Field    score.Stream
}

// Rules is evaluated in order; the first matching field rule wins.
var Rules = []Rule{
	{Intent: IntentField, Keywords: []string{"طب", "médecine"}, Field: score.ExperimentalSciences},
	{Intent: IntentField, Keywords: []string{"هندسة", "ingénierie"}, Field: score.TechnicalSciences},
	{Intent: IntentField, Keywords: []string{"إعلامية", "informatique"}, Field: score.ComputerScience},
	{Intent: IntentField, Keywords: []string{"اقتصاد", "économie"}, Field: score.EconomicsManagement},
	{Intent: IntentField, Keywords: []string{"فنون", "arts"}, Field: score.Arts},
	{Intent: IntentField, Keywords: []string{"آداب", "lettres"}, Field: score.Arts},
	{Intent: IntentField, Keywords: []string{"بيولوجيا", "biologie"}, Field: score.ExperimentalSciences},
	{Intent: IntentUniversity, Keywords: []string{"جامعة", "université", "university"}},
	{Intent: IntentMap, Keywords: []string{"خريطة", "carte", "map"}},
	{Intent: IntentCalculator, Keywords: []string{"حساب", "calcul", "points"}},
	{Intent: IntentStart, Keywords: []string{"نعم", "oui", "yes", "start", "ابدأ", "commencer"}},
}

// Detection is the outcome of Detect. Field is set for field intents
// and for university questions that also name a field.
type Detection struct {
	Intent Intent
	Field  score.Stream
}

func (r Rule) matches(folded string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(folded, core.FoldText(kw)) {
			return true
		}
	}
	return false
}

// Detect finds the intent of a message, ignoring case and accents.
// A university question wins over a field question, which wins over the other intents.
func Detect(text string) Detection {
	folded := core.FoldText(text)
	matched := make(map[Intent]bool, len(Rules))
	var field score.Stream

	for _, r := range Rules {
		if matched[r.Intent] || !r.matches(folded) {
			continue
		}
		matched[r.Intent] = true
		if r.Intent == IntentField {
			field = r.Field
		}
	}

	for _, intent := range []Intent{IntentUniversity, IntentField, IntentMap, IntentCalculator, IntentStart} {
		if matched[intent] {
			d := Detection{Intent: intent}
			if intent == IntentUniversity || intent == IntentField {
				d.Field = field
			}
			return d
		}
	}
	return Detection{Intent: IntentFallback}
}

// ProgramFinder lists catalogue programs of a field.
type ProgramFinder interface {
	ProgramsByField(field string, limit int) []matching.FieldProgram
}

// Reply renders the canned answer to `d` in `lang`, with the programs it listed.
func Reply(d Detection, lang string, finder ProgramFinder) (string, []matching.FieldProgram) {
	switch d.Intent {
	case IntentUniversity, IntentField:
		if d.Field == "" {
			return core.Pick(lang,
				`يمكنك زيارة صفحة "الجامعات" أو "دليل الجامعات" في التطبيق لمعرفة جميع الجامعات التونسية مع معلومات الاتصال والمواقع الإلكترونية.`,
				`Vous pouvez visiter la page "Universités" ou "Répertoire des Universités" dans l'application pour connaître toutes les universités tunisiennes avec leurs informations de contact et sites web.`,
			), nil
		}
		var header string
		if d.Intent == IntentUniversity {
			header = core.Pick(lang,
				fmt.Sprintf("إليك أفضل الجامعات التي تقدم برامج في مجال %s:", d.Field),
				fmt.Sprintf("Voici les meilleures universités qui proposent des programmes en %s:", d.Field),
			)
		} else {
			header = core.Pick(lang,
				fmt.Sprintf("إليك أفضل البرامج الجامعية في مجال %s:", d.Field),
				fmt.Sprintf("Voici les meilleurs programmes universitaires en %s:", d.Field),
			)
		}
		var progs []matching.FieldProgram
		if finder != nil {
			progs = finder.ProgramsByField(string(d.Field), matching.DefaultFieldLimit)
		}
		if len(progs) == 0 {
			return header + "\n" + core.Pick(lang,
				"لم أجد برامج مطابقة لهذا التخصص حالياً.",
				"Aucun programme correspondant trouvé pour ce domaine.",
			), progs
		}
		return header + "\n" + FormatPrograms(progs, lang), progs

	case IntentMap:
		return core.Pick(lang,
			`يمكنك زيارة "خريطة الجامعات" لرؤية مواقع جميع الجامعات على الخريطة التفاعلية.`,
			`Vous pouvez visiter "Carte des Universités" pour voir l'emplacement de toutes les universités sur la carte interactive.`,
		), nil

	case IntentCalculator:
		return core.Pick(lang,
			`يمكنك استخدام "حاسبة النقاط" لحساب نقاط FG و T بدقة باستخدام الصيغ الرسمية.`,
			`Vous pouvez utiliser le "Calculateur de points" pour calculer les points FG et T avec précision en utilisant les formules officielles.`,
		), nil

	case IntentStart:
		return core.Pick(lang,
			"ممتاز! دعنا نبدأ بالتقييم. سأطرح عليك بعض الأسئلة لفهم شخصيتك واهتماماتك بشكل أفضل.",
			"Parfait! Commençons l'évaluation. Je vais vous poser quelques questions pour mieux comprendre votre personnalité et vos intérêts.",
		), nil
	}

	return core.Pick(lang,
		"شكراً لسؤالك! يمكنك استكشاف المزيد من المعلومات في التطبيق أو طرح أسئلة أخرى علي.",
		"Merci pour votre question! Vous pouvez explorer plus d'informations dans l'application ou me poser d'autres questions.",
	), nil
}

// FormatPrograms renders one bullet per program, with a link to the university website when known.
func FormatPrograms(progs []matching.FieldProgram, lang string) string {
	lines := make([]string, 0, len(progs))
	for _, p := range progs {
		name := core.Pick(lang, p.UniversityAr, p.UniversityFr)
		line := fmt.Sprintf("• %s - %s", name, p.Degree)
		if p.Website != "" {
			line += fmt.Sprintf(" [%s](%s)", core.Pick(lang, "الموقع", "Site web"), p.Website)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ErrorMessage is returned when no answer could be produced.
func ErrorMessage(lang string) string {
	return core.Pick(lang,
		"عذراً، حدث خطأ في الاتصال. يرجى المحاولة مرة أخرى.",
		"Désolé, une erreur de connexion s'est produite. Veuillez réessayer.",
	)
}
