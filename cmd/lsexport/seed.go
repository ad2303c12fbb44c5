package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cedricOL/LimeSurvey/pkg/cli"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// seedBatchSize is how many generated responses are saved per round trip.
const seedBatchSize = 100

// demoTimeLayout is the timestamp format stored in response meta columns.
const demoTimeLayout = "2006-01-02 15:04:05"

var seedFlags struct {
	surveyID  int
	responses int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo survey with generated responses",
	Long: `Create a demo customer satisfaction survey and fill it with generated
responses.

The demo survey covers every supported question type, carries a full
German translation and a small participant list. Generated responses mix
complete, incomplete, tokenized and anonymous rows, deterministically
derived from the survey id. Seeding the same id again replaces the
structure and appends more responses.

Examples:
  # Seed the default demo survey with 250 responses
  lsexport seed

  # A larger data set under a custom id
  lsexport seed --survey 777777 --responses 10000`,
	RunE: seedDemo,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVarP(&seedFlags.surveyID, "survey", "s", 123456, "survey id to create")
	seedCmd.Flags().IntVarP(&seedFlags.responses, "responses", "n", 250, "number of responses to generate")
}

func seedDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	if seedFlags.surveyID <= 0 {
		return cli.NewConfigError("survey", "the survey id must be positive")
	}
	if seedFlags.responses < 0 {
		return cli.NewConfigError("responses", "the response count must not be negative")
	}

	store, err := openStorage(cfg)
	if err != nil {
		return cli.NewConfigError("storage", err.Error())
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()

	sv := demoSurvey(seedFlags.surveyID)
	if err := store.SaveSurvey(ctx, sv); err != nil {
		return cli.NewCommandError("seed", err)
	}
	fmt.Printf("✓ Survey %d created (%d groups, %d participants, languages en+de)\n",
		sv.ID, len(sv.Groups), len(sv.Tokens))

	rng := rand.New(rand.NewSource(int64(seedFlags.surveyID)))
	progress := cli.NewProgress(nil, seedFlags.responses)

	saved := 0
	for saved < seedFlags.responses {
		if err := ctx.Err(); err != nil {
			progress.Abort()
			return cli.NewCommandError("seed", err)
		}

		n := seedFlags.responses - saved
		if n > seedBatchSize {
			n = seedBatchSize
		}
		rows := make([]survey.ResponseRow, 0, n)
		for i := 0; i < n; i++ {
			rows = append(rows, demoResponse(rng, sv.Tokens))
		}
		if err := store.SaveResponses(ctx, sv.ID, rows); err != nil {
			progress.Abort()
			return cli.NewCommandError("seed", err)
		}
		saved += n
		progress.Set(saved)
	}
	progress.Finish()

	fmt.Printf("✓ Seeded survey %d with %d responses\n", sv.ID, saved)
	fmt.Printf("\nTry: lsexport export --survey %d\n", sv.ID)
	return nil
}

// demoSurvey builds the demo customer satisfaction survey: three groups,
// every supported question type, a participant list, and a complete German
// translation over an English base.
func demoSurvey(id int) *survey.Survey {
	sv := &survey.Survey{
		ID:       id,
		Language: "en",
		Groups: []survey.Group{
			{ID: 1, Title: "Your visit", Order: 1},
			{ID: 2, Title: "About you", Order: 2},
			{ID: 3, Title: "Feedback", Order: 3},
		},
		LanguageSettings: []survey.LanguageSetting{
			{Language: "en", Title: "Customer Satisfaction 2026", Description: "Annual customer satisfaction survey."},
			{Language: "de", Title: "Kundenzufriedenheit 2026", Description: "Jährliche Umfrage zur Kundenzufriedenheit."},
		},
		Questions: []survey.Question{
			{ID: 10, GroupID: 1, Code: "VISIT", Text: "How did you hear about us?", Type: survey.TypeList, Other: true, Order: 1},
			{ID: 20, GroupID: 1, Code: "SATISF", Text: "How satisfied are you with the following?", Type: survey.TypeArray, Order: 2},
			{ID: 201, ParentID: 20, GroupID: 1, Code: "SQ1", Text: "Service quality", Type: survey.TypeArray, Order: 1},
			{ID: 202, ParentID: 20, GroupID: 1, Code: "SQ2", Text: "Pricing", Type: survey.TypeArray, Order: 2},
			{ID: 203, ParentID: 20, GroupID: 1, Code: "SQ3", Text: "Customer support", Type: survey.TypeArray, Order: 3},
			{ID: 30, GroupID: 1, Code: "RECOMMEND", Text: "Would you recommend us to a colleague?", Type: survey.TypeYesNo, Order: 3},
			{ID: 40, GroupID: 2, Code: "AGE", Text: "How old are you?", Type: survey.TypeNumeric, Order: 1},
			{ID: 50, GroupID: 2, Code: "NICKNAME", Text: "What should we call you?", Type: survey.TypeShortText, Order: 2},
			{ID: 60, GroupID: 2, Code: "COUNTRY", Text: "Country of residence", Type: survey.TypeListDropdown, Order: 3},
			{ID: 70, GroupID: 2, Code: "CONTACT", Text: "Preferred contact channel", Type: survey.TypeListWithComment, Order: 4},
			{ID: 80, GroupID: 3, Code: "FEATURES", Text: "Which features do you use?", Type: survey.TypeMultipleChoice, Order: 1},
			{ID: 801, ParentID: 80, GroupID: 3, Code: "F1", Text: "Dashboard", Type: survey.TypeMultipleChoice, Order: 1},
			{ID: 802, ParentID: 80, GroupID: 3, Code: "F2", Text: "Scheduled reports", Type: survey.TypeMultipleChoice, Order: 2},
			{ID: 803, ParentID: 80, GroupID: 3, Code: "F3", Text: "Public API", Type: survey.TypeMultipleChoice, Order: 3},
			{ID: 90, GroupID: 3, Code: "PRIO", Text: "Rank what matters most to you", Type: survey.TypeRanking, Order: 2},
			{ID: 100, GroupID: 3, Code: "LASTVISIT", Text: "Date of your last visit", Type: survey.TypeDate, Order: 3},
			{ID: 110, GroupID: 3, Code: "COMMENTS", Text: "Anything else you would like to tell us?", Type: survey.TypeLongText, Order: 4},
		},
		Answers: []survey.Answer{
			{QuestionID: 10, Code: "A1", Text: "Search engine", Order: 1},
			{QuestionID: 10, Code: "A2", Text: "Friend or colleague", Order: 2},
			{QuestionID: 10, Code: "A3", Text: "Advertisement", Order: 3},
			{QuestionID: 10, Code: "A4", Text: "Other", Order: 4},
			{QuestionID: 20, Code: "1", Text: "Very dissatisfied", Order: 1},
			{QuestionID: 20, Code: "2", Text: "Dissatisfied", Order: 2},
			{QuestionID: 20, Code: "3", Text: "Neither satisfied nor dissatisfied", Order: 3},
			{QuestionID: 20, Code: "4", Text: "Satisfied", Order: 4},
			{QuestionID: 20, Code: "5", Text: "Very satisfied", Order: 5},
			{QuestionID: 60, Code: "DE", Text: "Germany", Order: 1},
			{QuestionID: 60, Code: "FR", Text: "France", Order: 2},
			{QuestionID: 60, Code: "GB", Text: "United Kingdom", Order: 3},
			{QuestionID: 60, Code: "US", Text: "United States", Order: 4},
			{QuestionID: 70, Code: "EMAIL", Text: "Email", Order: 1},
			{QuestionID: 70, Code: "PHONE", Text: "Phone", Order: 2},
			{QuestionID: 90, Code: "QUAL", Text: "Quality", Order: 1},
			{QuestionID: 90, Code: "PRICE", Text: "Price", Order: 2},
			{QuestionID: 90, Code: "SPEED", Text: "Speed", Order: 3},
		},
		Tokens: []survey.Token{
			{Token: "TK1001", FirstName: "Nora", LastName: "Okafor", Email: "nora.okafor@example.com", Attributes: map[string]string{"attribute_1": "Operations"}},
			{Token: "TK1002", FirstName: "Jonas", LastName: "Weber", Email: "jonas.weber@example.com", Attributes: map[string]string{"attribute_1": "Engineering"}},
			{Token: "TK1003", FirstName: "Amelie", LastName: "Laurent", Email: "amelie.laurent@example.com", Attributes: map[string]string{"attribute_1": "Finance"}},
			{Token: "TK1004", FirstName: "Priya", LastName: "Nair", Email: "priya.nair@example.com", Attributes: map[string]string{"attribute_1": "Engineering"}},
			{Token: "TK1005", FirstName: "Tom", LastName: "Becker", Email: "tom.becker@example.com", Attributes: map[string]string{"attribute_1": "Sales"}},
			{Token: "TK1006", FirstName: "Lucia", LastName: "Moretti", Email: "lucia.moretti@example.com", Attributes: map[string]string{"attribute_1": "Marketing"}},
			{Token: "TK1007", FirstName: "Erik", LastName: "Lindqvist", Email: "erik.lindqvist@example.com", Attributes: map[string]string{"attribute_1": "Support"}},
			{Token: "TK1008", FirstName: "Mei", LastName: "Tanaka", Email: "mei.tanaka@example.com", Attributes: map[string]string{"attribute_1": "Operations"}},
		},
	}

	// German overlay rows. The range snapshots cover only the base rows, so
	// appending translated copies while iterating is safe.
	for _, q := range sv.Questions {
		if text, ok := demoQuestionDE[q.ID]; ok {
			q.Language = "de"
			q.Text = text
			sv.Questions = append(sv.Questions, q)
		}
	}
	for _, a := range sv.Answers {
		if text, ok := demoAnswerDE[answerKey{a.QuestionID, a.Code}]; ok {
			a.Language = "de"
			a.Text = text
			sv.Answers = append(sv.Answers, a)
		}
	}
	return sv
}

// demoQuestionDE maps question ids to their German texts.
var demoQuestionDE = map[int]string{
	10:  "Wie haben Sie von uns erfahren?",
	20:  "Wie zufrieden sind Sie mit den folgenden Punkten?",
	201: "Servicequalität",
	202: "Preisgestaltung",
	203: "Kundensupport",
	30:  "Würden Sie uns weiterempfehlen?",
	40:  "Wie alt sind Sie?",
	50:  "Wie dürfen wir Sie nennen?",
	60:  "Land des Wohnsitzes",
	70:  "Bevorzugter Kontaktweg",
	80:  "Welche Funktionen nutzen Sie?",
	801: "Dashboard",
	802: "Geplante Berichte",
	803: "Öffentliche API",
	90:  "Was ist Ihnen am wichtigsten?",
	100: "Datum Ihres letzten Besuchs",
	110: "Möchten Sie uns noch etwas mitteilen?",
}

type answerKey struct {
	questionID int
	code       string
}

// demoAnswerDE maps (question, code) pairs to their German option texts. The
// demo survey only uses the default answer scale.
var demoAnswerDE = map[answerKey]string{
	{10, "A1"}:    "Suchmaschine",
	{10, "A2"}:    "Freunde oder Kollegen",
	{10, "A3"}:    "Werbung",
	{10, "A4"}:    "Sonstiges",
	{20, "1"}:     "Sehr unzufrieden",
	{20, "2"}:     "Unzufrieden",
	{20, "3"}:     "Teils, teils",
	{20, "4"}:     "Zufrieden",
	{20, "5"}:     "Sehr zufrieden",
	{60, "DE"}:    "Deutschland",
	{60, "FR"}:    "Frankreich",
	{60, "GB"}:    "Vereinigtes Königreich",
	{60, "US"}:    "Vereinigte Staaten",
	{70, "EMAIL"}: "E-Mail",
	{70, "PHONE"}: "Telefon",
	{90, "QUAL"}:  "Qualität",
	{90, "PRICE"}: "Preis",
	{90, "SPEED"}: "Geschwindigkeit",
}

// demoResponse generates one plausible response row. Roughly one row in five
// abandons the survey on the first page, one in three arrives through the
// token list, and all values are drawn from the survey's configured options.
func demoResponse(rng *rand.Rand, tokens []survey.Token) survey.ResponseRow {
	started := time.Now().AddDate(0, 0, -rng.Intn(90)).Add(-time.Duration(rng.Intn(86400)) * time.Second)
	finished := started.Add(time.Duration(3+rng.Intn(20)) * time.Minute)

	row := survey.ResponseRow{
		survey.ColStartDate:     started.Format(demoTimeLayout),
		survey.ColDateStamp:     finished.Format(demoTimeLayout),
		survey.ColStartLanguage: pick(rng, "en", "en", "en", "de"),
		survey.ColIPAddr:        fmt.Sprintf("203.0.113.%d", 1+rng.Intn(254)),
	}
	if rng.Intn(3) == 0 {
		row[survey.ColRefURL] = "https://www.example.com/surveys"
	}
	if len(tokens) > 0 && rng.Intn(3) == 0 {
		row[survey.ColToken] = tokens[rng.Intn(len(tokens))].Token
	}

	// Page 1: visit, satisfaction matrix, recommendation.
	visit := pick(rng, "A1", "A1", "A2", "A3", "A4")
	row["VISIT"] = visit
	if visit == "A4" {
		row["VISIT_other"] = pick(rng, "Podcast", "Conference booth", "Newspaper ad")
	}
	for _, cell := range []string{"SATISF_SQ1", "SATISF_SQ2", "SATISF_SQ3"} {
		row[cell] = strconv.Itoa(1 + rng.Intn(5))
	}
	row["RECOMMEND"] = pick(rng, "Y", "Y", "Y", "N")

	if rng.Intn(5) == 0 {
		// Abandoned: no submission timestamp, stuck on an early page.
		row[survey.ColLastPage] = strconv.Itoa(1 + rng.Intn(2))
		return row
	}

	// Page 2: about the respondent.
	row["AGE"] = strconv.Itoa(18 + rng.Intn(55))
	if nick := pick(rng, "Alex", "Sam", "Kim", "Jo", "Chris", ""); nick != "" {
		row["NICKNAME"] = nick
	}
	row["COUNTRY"] = pick(rng, "DE", "DE", "FR", "GB", "US")
	contact := pick(rng, "EMAIL", "EMAIL", "PHONE")
	row["CONTACT"] = contact
	if contact == "PHONE" && rng.Intn(2) == 0 {
		row["CONTACT_comment"] = "Weekdays after 17:00, please."
	}

	// Page 3: feature flags, priorities, free text.
	for _, flag := range []string{"FEATURES_F1", "FEATURES_F2", "FEATURES_F3"} {
		if rng.Intn(2) == 0 {
			row[flag] = "Y"
		}
	}
	codes := []string{"QUAL", "PRICE", "SPEED"}
	for rank, i := range rng.Perm(len(codes)) {
		row[fmt.Sprintf("PRIO_%d", rank+1)] = codes[i]
	}
	row["LASTVISIT"] = started.AddDate(0, 0, -rng.Intn(30)).Format("2006-01-02")
	if rng.Intn(4) == 0 {
		row["COMMENTS"] = pick(rng,
			"Keep it up!",
			"The reports page is slow, but support sorted \"most\" of it quickly.",
			"Please add a dark theme.\nAnd CSV import.",
		)
	}

	row[survey.ColSubmitDate] = finished.Format(demoTimeLayout)
	row[survey.ColLastPage] = "3"
	return row
}

// pick returns one of the choices with equal probability; repeating a choice
// weights it.
func pick(rng *rand.Rand, choices ...string) string {
	return choices[rng.Intn(len(choices))]
}
