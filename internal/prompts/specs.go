package prompts

const questionSpec = `Respond with a JSON object matching this exact structure:

{
  "questionText": "<question>",
  "answerType": "<scale|radio|checkbox|text>",
  "options": ["<option1>", "<option2>"],
  "reasoning": "<why this question>"
}

Field constraints:
- questionText: A single question for the current phase. Must not repeat
  any question already present in the history.
- answerType: One of scale, radio, checkbox, or text.
- options: For scale, the labels "1" through "5" with short anchors
  (e.g., "1 - Not at all", "5 - Fully"). For radio and checkbox, three to
  six distinct options ordered from least to most mature. Empty array for
  text questions.
- reasoning: One or two sentences explaining what this question reveals
  about the respondent's maturity in the current phase.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Ask exactly one question
- Stay within the current phase`

const reportSpec = `Respond with a Markdown report using this exact section structure:

## Overall Tier: <Dabbler|Enabler|Leader>

## Executive Summary
Two or three short paragraphs summarizing the organization's position.

## Phase Findings
One "### <Phase Name>" subsection per assessment phase with the key
observations drawn from the respondent's answers.

## Strengths

## Gaps and Risks

## Next Steps
A numbered list of five to eight concrete, prioritized actions with a
short rationale for each.

Behavioral constraints:
- The Overall Tier heading must state the tier given in the context block
- Ground every finding in the respondent's actual answers
- Do not include links, URLs, advertisements, or sponsor messages
- Do not add content after the Next Steps section`

var specs = map[Stage]string{
	StageQuestion:      questionSpec,
	StageReportDabbler: reportSpec,
	StageReportEnabler: reportSpec,
	StageReportLeader:  reportSpec,
}

// Spec returns the hardcoded specification for a generation stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
