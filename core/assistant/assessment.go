package assistant

import (
	"strings"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
)

// profile defaults when an answer names nothing known
const (
	DefaultInterest    = "general"
	DefaultSubject     = "general"
	DefaultGoal        = "career"
	DefaultPersonality = "balanced"
	DefaultLocation    = "Tunisia"
)

type keywordGroup struct {
	value    string
	keywords []string
}

var (
	interestKeywords = []keywordGroup{
		{"technology", []string{"تكنولوجيا", "technology", "حاسوب", "informatique"}},
		{"science", []string{"علوم", "science", "بحث", "recherche"}},
		{"business", []string{"أعمال", "business", "إدارة", "gestion"}},
		{"arts", []string{"فنون", "arts", "إبداع", "créativité"}},
		{"health", []string{"صحة", "health", "طب", "médecine"}},
		{"education", []string{"تعليم", "education", "تدريس", "enseignement"}},
		{"engineering", []string{"هندسة", "engineering", "تصميم", "design"}},
		{"languages", []string{"لغات", "languages", "ترجمة", "traduction"}},
		{"social", []string{"اجتماعي", "social"}},
		{"environment", []string{"بيئة", "environment", "طبيعة", "nature"}},
	}
	subjectKeywords = []keywordGroup{
		{"math", []string{"رياضيات", "math", "mathématiques"}},
		{"physics", []string{"فيزياء", "physics", "physique"}},
		{"chemistry", []string{"كيمياء", "chemistry", "chimie"}},
		{"biology", []string{"بيولوجيا", "biology", "biologie"}},
		{"history", []string{"تاريخ", "history", "histoire"}},
		{"geography", []string{"جغرافيا", "geography", "géographie"}},
		{"literature", []string{"أدب", "literature", "littérature"}},
		{"philosophy", []string{"فلسفة", "philosophy"}},
		{"economics", []string{"اقتصاد", "economics", "économie"}},
		{"languages", []string{"لغات", "languages"}},
	}
	personalityKeywords = []keywordGroup{
		{"analytical", []string{"تحليلي", "analytical", "منطقي", "logique"}},
		{"creative", []string{"مبدع", "creative", "فني", "artistique"}},
		{"social", []string{"اجتماعي", "social", "متعاون", "coopératif"}},
		{"leadership", []string{"قائد", "leadership", "مبادر", "entreprenant"}},
		{"detail", []string{"دقيق", "detail", "منظم", "organisé"}},
		{"adventurous", []string{"مغامر", "adventurous", "مستكشف", "explorateur"}},
		{"helpful", []string{"مساعد", "helpful", "متعاطف", "empathique"}},
		{"independent", []string{"مستقل", "independent", "ذاتي", "autonome"}},
	}
	goalKeywords = []keywordGroup{
		{"research", []string{"بحث", "research", "علمي", "scientifique"}},
		{"entrepreneur", []string{"ريادة", "entrepreneur", "أعمال", "affaires"}},
		{"career", []string{"مهنة", "career", "مستقرة", "stable"}},
		{"teaching", []string{"تدريس", "teaching", "تعليم", "enseignement"}},
		{"innovation", []string{"ابتكار", "innovation", "تطوير", "développement"}},
		{"service", []string{"خدمة", "service", "مجتمع", "société"}},
		{"international", []string{"دولي", "international", "خارج", "étranger"}},
		{"specialization", []string{"تخصص", "specialization", "متقدم", "avancée"}},
	}
)

func (g keywordGroup) matches(folded string) bool {
	for _, kw := range g.keywords {
		if strings.Contains(folded, core.FoldText(kw)) {
			return true
		}
	}
	return false
}

func extract(folded string, groups []keywordGroup, fallback string) []string {
	vals := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.matches(folded) {
			vals = append(vals, g.value)
		}
	}
	if len(vals) == 0 {
		return []string{fallback}
	}
	return vals
}

// ExtractProfile reads interests, subjects, personality traits and goals out of a free-text answer.
func ExtractProfile(answer string) Profile {
	folded := core.FoldText(answer)
	return Profile{
		Interests:   extract(folded, interestKeywords, DefaultInterest),
		Skills:      []string{},
		Subjects:    extract(folded, subjectKeywords, DefaultSubject),
		Goals:       extract(folded, goalKeywords, DefaultGoal),
		Personality: extract(folded, personalityKeywords, DefaultPersonality),
		Location:    DefaultLocation,
	}
}

type suggestion struct {
	field  score.Stream
	match  func(p *Profile) bool
	textAr string
	textFr string
}

var suggestions = []suggestion{
	{
		field:  score.ComputerScience,
		match:  func(p *Profile) bool { return p.has(p.Interests, "technology") || p.has(p.Subjects, "math") },
		textAr: "🎯 **علوم الحاسوب**: مناسبة جداً لشخصيتك التحليلية واهتمامك بالتكنولوجيا. يمكنك العمل في مجال البرمجة، الذكاء الاصطناعي، أو تطوير البرمجيات.",
		textFr: "🎯 **Informatique**: Très adaptée à votre personnalité analytique et votre intérêt pour la technologie. Vous pourriez travailler dans la programmation, l'IA, ou le développement logiciel.",
	},
	{
		field:  score.TechnicalSciences,
		match:  func(p *Profile) bool { return p.has(p.Interests, "engineering") || p.has(p.Subjects, "physics") },
		textAr: "🏗️ **الهندسة**: مناسبة لشخصيتك التحليلية والمنظمة. يمكنك التخصص في الهندسة المدنية، الكهربائية، أو الميكانيكية.",
		textFr: "🏗️ **Ingénierie**: Adaptée à votre personnalité analytique et organisée. Vous pourriez vous spécialiser en génie civil, électrique, ou mécanique.",
	},
	{
		field:  score.EconomicsManagement,
		match:  func(p *Profile) bool { return p.has(p.Interests, "business") || p.has(p.Personality, "leadership") },
		textAr: "💼 **إدارة الأعمال**: مناسبة لشخصيتك القيادية واهتمامك بالأعمال. يمكنك العمل في مجال الإدارة، التسويق، أو ريادة الأعمال.",
		textFr: "💼 **Gestion d'entreprise**: Adaptée à votre personnalité de leader et votre intérêt pour les affaires. Vous pourriez travailler en management, marketing, ou entrepreneuriat.",
	},
	{
		field:  score.ExperimentalSciences,
		match:  func(p *Profile) bool { return p.has(p.Interests, "health") || p.has(p.Subjects, "biology") },
		textAr: "🏥 **العلوم الصحية**: مناسبة لشخصيتك المساعدة واهتمامك بالصحة. يمكنك التخصص في الطب، الصيدلة، أو التمريض.",
		textFr: "🏥 **Sciences de la santé**: Adaptée à votre personnalité serviable et votre intérêt pour la santé. Vous pourriez vous spécialiser en médecine, pharmacie, ou soins infirmiers.",
	},
	{
		field:  score.Arts,
		match:  func(p *Profile) bool { return p.has(p.Interests, "arts") || p.has(p.Personality, "creative") },
		textAr: "🎨 **الفنون والتصميم**: مناسبة لشخصيتك المبدعة. يمكنك العمل في مجال التصميم الجرافيكي، العمارة، أو الفنون الجميلة.",
		textFr: "🎨 **Arts et design**: Adaptée à votre personnalité créative. Vous pourriez travailler en design graphique, architecture, ou beaux-arts.",
	},
}

// SuggestFields maps a profile to the streams whose programs suit it, in a fixed order.
func SuggestFields(p Profile) []score.Stream {
	fields := make([]score.Stream, 0, len(suggestions))
	for _, s := range suggestions {
		if s.match(&p) {
			fields = append(fields, s.field)
		}
	}
	return fields
}

// FallbackRecommendations is the rule-based advice for a profile, one paragraph per suggested field.
func FallbackRecommendations(p Profile, lang string) []string {
	recs := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if s.match(&p) {
			recs = append(recs, core.Pick(lang, s.textAr, s.textFr))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, core.Pick(lang,
			`📚 **توصية عامة**: بناءً على شخصيتك المتوازنة، يمكنك استكشاف مختلف المجالات. أقترح عليك زيارة صفحة "استكشف الجامعات" لمعرفة المزيد عن البرامج المتاحة.`,
			`📚 **Recommandation générale**: Basé sur votre personnalité équilibrée, vous pouvez explorer différents domaines. Je vous suggère de visiter la page "Explorer les universités" pour en savoir plus sur les programmes disponibles.`,
		))
	}
	return recs
}

// Greeting opens a conversation.
func Greeting(lang string) string {
	return core.Pick(lang,
		`مرحباً! أنا مساعدك الذكي للتوجيه الجامعي 🎓

أنا هنا لمساعدتك في اختيار أفضل مسار جامعي بناءً على:
• مهاراتك واهتماماتك
• المواد التي تفضلها
• أهدافك المستقبلية
• شخصيتك وأسلوب تعلمك

هل تريد أن نبدأ بتقييم سريع لشخصيتك واهتماماتك؟`,
		`Bonjour! Je suis votre assistant IA pour l'orientation universitaire 🎓

Je suis ici pour vous aider à choisir le meilleur parcours universitaire basé sur:
• Vos compétences et intérêts
• Les matières que vous préférez
• Vos objectifs futurs
• Votre personnalité et style d'apprentissage

Voulez-vous commencer par une évaluation rapide de votre personnalité et de vos intérêts?`,
	)
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

type option struct{ value, ar, fr string }

type question struct {
	id, ar, fr string
	options    []option
}

var questions = []question{
	{
		id: "interests", ar: "ما هي اهتماماتك الرئيسية؟ (اختر 3-5)", fr: "Quels sont vos intérêts principaux? (choisissez 3-5)",
		options: []option{
			{"technology", "التكنولوجيا والحاسوب", "Technologie et informatique"},
			{"science", "العلوم والبحث", "Sciences et recherche"},
			{"business", "الأعمال والإدارة", "Commerce et gestion"},
			{"arts", "الفنون والإبداع", "Arts et créativité"},
			{"health", "الصحة والطب", "Santé et médecine"},
			{"education", "التعليم والتدريس", "Éducation et enseignement"},
			{"engineering", "الهندسة والتصميم", "Ingénierie et design"},
			{"languages", "اللغات والترجمة", "Langues et traduction"},
			{"social", "العلوم الاجتماعية", "Sciences sociales"},
			{"environment", "البيئة والطبيعة", "Environnement et nature"},
		},
	},
	{
		id: "subjects", ar: "ما هي المواد الدراسية التي تفضلها؟ (اختر 3-5)", fr: "Quelles matières préférez-vous? (choisissez 3-5)",
		options: []option{
			{"math", "الرياضيات", "Mathématiques"},
			{"physics", "الفيزياء", "Physique"},
			{"chemistry", "الكيمياء", "Chimie"},
			{"biology", "البيولوجيا", "Biologie"},
			{"history", "التاريخ", "Histoire"},
			{"geography", "الجغرافيا", "Géographie"},
			{"literature", "الأدب", "Littérature"},
			{"philosophy", "الفلسفة", "Philosophie"},
			{"economics", "الاقتصاد", "Économie"},
			{"languages", "اللغات", "Langues"},
		},
	},
	{
		id: "personality", ar: "كيف تصف شخصيتك؟ (اختر 3-4)", fr: "Comment décririez-vous votre personnalité? (choisissez 3-4)",
		options: []option{
			{"analytical", "تحليلي ومنطقي", "Analytique et logique"},
			{"creative", "مبدع وفني", "Créatif et artistique"},
			{"social", "اجتماعي ومتعاون", "Social et coopératif"},
			{"leadership", "قائد ومبادر", "Leader et entreprenant"},
			{"detail", "دقيق ومنظم", "Méticuleux et organisé"},
			{"adventurous", "مغامر ومستكشف", "Aventurier et explorateur"},
			{"helpful", "مساعد ومتعاطف", "Serviable et empathique"},
			{"independent", "مستقل وذاتي", "Indépendant et autonome"},
		},
	},
	{
		id: "goals", ar: "ما هي أهدافك المستقبلية؟ (اختر 2-3)", fr: "Quels sont vos objectifs futurs? (choisissez 2-3)",
		options: []option{
			{"research", "البحث العلمي", "Recherche scientifique"},
			{"entrepreneur", "ريادة الأعمال", "Entrepreneuriat"},
			{"career", "مهنة مستقرة", "Carrière stable"},
			{"teaching", "التدريس والتعليم", "Enseignement"},
			{"innovation", "الابتكار والتطوير", "Innovation et développement"},
			{"service", "خدمة المجتمع", "Service à la société"},
			{"international", "العمل الدولي", "Travail international"},
			{"specialization", "التخصص المتقدم", "Spécialisation avancée"},
		},
	},
}

// Questions returns the assessment questions in `lang`.
func Questions(lang string) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		opts := make([]Option, 0, len(q.options))
		for _, o := range q.options {
			opts = append(opts, Option{Value: o.value, Label: core.Pick(lang, o.ar, o.fr)})
		}
		out = append(out, Question{ID: q.id, Question: core.Pick(lang, q.ar, q.fr), Options: opts})
	}
	return out
}

func followUp(lang string) string {
	return core.Pick(lang,
		"هل تريد معرفة المزيد عن أي من هذه التخصصات أو الجامعات؟ يمكنك أن تسألني عن تفاصيل أكثر.",
		"Voulez-vous en savoir plus sur l'une de ces spécialisations ou universités? Vous pouvez me demander plus de détails.",
	)
}

func fieldTitle(field score.Stream, lang string) string {
	return core.Pick(lang,
		"🔎 أفضل 10 برامج جامعية في مجال "+string(field)+":",
		"🔎 Top 10 programmes universitaires en "+string(field)+":",
	)
}
