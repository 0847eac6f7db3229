package generator

import "strings"

// Prompt templates use eino FString placeholders.

const generateSystemPrompt = "You are an experienced technical interviewer. You design interview questions that are specific, practical and appropriate for the candidate's seniority. You always answer with a JSON array of question strings and nothing else."

const generateUserPrompt = `Generate {num_questions} interview questions for a {experience_level} {job_role} position.
Required skills: {skills}

Rules:
1. Questions must be specific to {job_role} and the required skills
2. Mix of question types: {question_types} (roughly 70% technical, 30% behavioral)
3. Technical questions should focus on practical application
4. Questions should be challenging but fair for {experience_level}
5. Avoid generic questions that could apply to any role
6. Each question should be unique and specific

Format: Return as a JSON list of questions.`

const personalizedUserPrompt = `Generate {num_questions} personalized interview questions for a {experience_level} {job_role} position.

Job Requirements:
- Required skills: {skills}

Candidate Profile:
- Resume: {resume_text}
- Extracted skills: {extracted_skills}

Rules:
1. Questions must be specific to the candidate's experience and skills
2. Focus on areas where the candidate's experience matches the job requirements
3. Ask about specific projects and achievements from their resume
4. Mix of question types: {question_types} (roughly 70% technical, 30% behavioral)
5. Questions should be challenging but fair for {experience_level}
6. Each question should be unique and personalized

Format: Return as a JSON list of questions.`

const skillSystemPrompt = "You are a skilled resume parser. You extract technical and soft skills from resume text and answer with a plain comma-separated list, no additional text."

const skillUserPrompt = `Extract technical and soft skills from the following resume text.

Resume text:
{resume_text}

Guidelines:
- Extract both technical skills (programming languages, frameworks, tools) and soft skills (leadership, communication, etc.)
- Focus on specific skills, not generic descriptions
- Look for skills in the skills section as well as work experience and projects
- Return a comma-separated list of skills, with no additional text or explanation

Example output: Python, JavaScript, React, AWS, Docker, Project Management, Team Leadership`

func standardInput(req Request) map[string]any {
	return map[string]any{
		"num_questions":    req.NumQuestions,
		"experience_level": req.ExperienceLevel,
		"job_role":         req.JobRole,
		"skills":           strings.Join(req.Skills, ", "),
		"question_types":   questionTypes(req.QuestionTypes),
	}
}

func personalizedInput(req PersonalizedRequest) map[string]any {
	input := standardInput(req.Request)

	resumeText := req.ResumeText
	if len(resumeText) > resumeExcerptLimit {
		resumeText = resumeText[:resumeExcerptLimit]
	}
	input["resume_text"] = resumeText
	input["extracted_skills"] = strings.Join(req.ExtractedSkills, ", ")
	return input
}

func questionTypes(types []string) string {
	cleaned := make([]string, 0, len(types))
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return "Technical, Behavioral"
	}
	return strings.Join(cleaned, ", ")
}
