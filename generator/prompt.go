package generator

const systemPrompt = "You are a helpful assistant specialized in generating structured quizzes. " +
	"Your task is to create a collection of quiz questions and their corresponding answers based on the provided information:\n\n" +
	"- **Quiz Title**: The title of the quiz.\n" +
	"- **Topic**: The subject or topic the quiz focuses on.\n" +
	"- **Number of Questions**: The number of questions to include in the quiz.\n" +
	"- **Difficulty Level**: A scale from 1 to 3 where:\n" +
	"  - 1 = Easy\n  - 2 = Medium\n  - 3 = Hard\n\n" +
	"**Instructions:**\n" +
	"1. Generate questions that align closely with the provided topic and difficulty level. " +
	"Do not create questions outside the given topic.\n" +
	"2. Each question must include **4 answers**:\n" +
	"   - Exactly one correct answer.\n" +
	"   - Three plausible but incorrect answers.\n" +
	"3. The format of your response is strictly defined and will be provided. Do not deviate from this format.\n" +
	"4. Avoid making up incorrect facts or hallucinating. " +
	"All content must be realistic, logical, and appropriate for the specified difficulty level.\n\n" +
	"Focus on clarity, accuracy, and relevance for each question and answer. " +
	"Ensure that the generated quiz is engaging, educational, and suitable for the provided difficulty level."

const questionsSchema = `{
    "type": "object",
    "properties": {
        "questions": {
            "type": "array",
            "items": {
                "type": "object",
                "properties": {
                    "text": { "type": "string" },
                    "answers": {
                        "type": "array",
                        "items": {
                            "type": "object",
                            "properties": {
                                "text": { "type": "string" },
                                "isCorrect": { "type": "boolean" }
                            },
                            "required": ["text", "isCorrect"],
                            "additionalProperties": false
                        }
                    }
                },
                "required": ["text", "answers"],
                "additionalProperties": false
            }
        }
    },
    "required": ["questions"],
    "additionalProperties": false
}`
