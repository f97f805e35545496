package analysis

import "text/template"

// Prompt templates are compiled once at package load. All candidate and
// job text flows through template substitution, never string
// concatenation, so prompt structure survives hostile input.

var textAnalysisPrompt = template.Must(template.New("textAnalysis").Parse(
	`Analyze this interview response and provide scores for different aspects:

Question: {{.Question}}
Response: {{.Transcript}}
Expected Keywords: {{.Keywords}}

Provide a JSON response with:
1. technical_score: 0-1 score for technical accuracy
2. sentiment_score: -1 to 1 (-1 negative, 0 neutral, 1 positive)
3. confidence_score: 0-1 score for confidence level
4. relevance_score: 0-1 score for relevance to the question
5. clarity_score: 0-1 score for clarity and structure

IMPORTANT: Return ONLY valid JSON without any additional text or formatting.`))

var poolPrompt = template.Must(template.New("pool").Parse(
	`Analyze this job description and generate {{.Count}} diverse interview questions for a {{.Title}} position:

Job Description: {{.Description}}

Generate questions with a natural progression in difficulty:
- beginner questions (warm-up, basic knowledge)
- intermediate questions (practical application)
- advanced questions (complex scenarios)
- expert questions (architecture, design patterns)

Format as a JSON array with objects containing:
- id: unique identifier
- text: question text (conversational and natural)
- type: question type (technical, behavioral, situational, problem_solving, cultural_fit)
- difficulty: difficulty level (beginner, intermediate, advanced, expert)
- category: question category
- expected_keywords: array of keywords for a good answer

IMPORTANT: Return ONLY valid JSON without any additional text or formatting.
Make the questions sound like a human interviewer would ask them, not a robot.`))

var contextualPrompt = template.Must(template.New("contextual").Parse(
	`You are an expert interviewer conducting a mock interview for the following position:

Job Title: {{.Title}}
Job Description: {{.Description}}

Current Performance:
- Technical Score: {{printf "%.2f" .Technical}}
- Communication Score: {{printf "%.2f" .Communication}}
- Confidence Score: {{printf "%.2f" .Confidence}}

Conversation History:
{{range .History}}Q: {{.Question}}
A: {{.Answer}}

{{end}}Already Asked Questions: {{.AskedIDs}}

Generate the next question with these requirements:
1. Difficulty level: {{.Difficulty}}
2. Make it sound natural and conversational
3. Build upon previous answers when relevant
4. Focus on a different aspect than the previous questions

Provide the response as a JSON object with:
- id: unique identifier
- text: the question text
- type: question type (technical, behavioral, situational, problem_solving, cultural_fit)
- difficulty: difficulty level ({{.Difficulty}})
- category: question category
- expected_keywords: array of keywords for a good answer

IMPORTANT: Return ONLY valid JSON without any additional text or formatting.`))

var jobRequirementsPrompt = template.Must(template.New("jobRequirements").Parse(
	`Analyze this job description and extract key requirements, skills, and qualifications:

Job Title: {{.Title}}
Job Description: {{.Description}}

Provide a JSON response with:
1. key_skills: list of technical skills required
2. experience_level: beginner/intermediate/advanced/expert
3. key_responsibilities: list of main responsibilities

IMPORTANT: Return ONLY valid JSON without any additional text or formatting.`))
