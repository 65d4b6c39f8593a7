package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// MaxAnalysisFieldLength bounds each generated field, in characters
const MaxAnalysisFieldLength = 280

// ClientContext is the summary of a client sent to the model
type ClientContext struct {
	Name               string
	Phone              string
	Status             string
	LastInteraction    time.Time
	DaysSince          int
	InteractionCount   int
	RecentInteractions []string // most recent first
}

// AnalysisSchema is the strict output contract for client analysis
var AnalysisSchema = Schema{
	Name: "client_analysis",
	Definition: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"analysis": {
				Type:        jsonschema.String,
				Description: fmt.Sprintf("Engagement analysis, at most %d characters", MaxAnalysisFieldLength),
			},
			"recommendation": {
				Type:        jsonschema.String,
				Description: fmt.Sprintf("Next action for the sales team, at most %d characters", MaxAnalysisFieldLength),
			},
		},
		Required:             []string{"analysis", "recommendation"},
		AdditionalProperties: false,
	},
}

// BuildAnalysisSystemPrompt returns the instructions shared by every analysis request.
// jsonOutput selects between a JSON answer and two labeled lines.
func BuildAnalysisSystemPrompt(jsonOutput bool) string {
	var sb strings.Builder

	sb.WriteString("You are a CRM expert. Analyze the client's engagement.\n")
	sb.WriteString("Classification rules:\n")
	sb.WriteString("- more than 30 days without contact: inactive, high risk\n")
	sb.WriteString("- 15 to 30 days: at risk (potential)\n")
	sb.WriteString("- 8 to 14 days: active, keep the pace\n")
	sb.WriteString("- 7 days or less: highly engaged\n")
	sb.WriteString(fmt.Sprintf("Be concise: at most %d characters per field. Emojis are welcome.\n", MaxAnalysisFieldLength))

	if jsonOutput {
		sb.WriteString(`Answer with a JSON object with the keys "analysis" and "recommendation" and nothing else.`)
	} else {
		sb.WriteString("Answer with exactly two lines:\n")
		sb.WriteString("ANALYSIS: <analysis>\n")
		sb.WriteString("RECOMMENDATION: <recommendation>")
	}

	return sb.String()
}

// BuildClientContext renders the client summary sent as the user message
func BuildClientContext(c ClientContext) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Client: %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("Phone: %s\n", c.Phone))
	sb.WriteString(fmt.Sprintf("Current status: %s\n", c.Status))
	sb.WriteString(fmt.Sprintf("Days since last interaction: %d\n", c.DaysSince))
	sb.WriteString(fmt.Sprintf("Last interaction: %s\n", c.LastInteraction.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Number of interactions: %d\n", c.InteractionCount))

	if len(c.RecentInteractions) > 0 {
		sb.WriteString(fmt.Sprintf("Recent interactions (newest first): %s", strings.Join(c.RecentInteractions, ", ")))
	} else {
		sb.WriteString("Recent interactions: none")
	}

	return sb.String()
}
