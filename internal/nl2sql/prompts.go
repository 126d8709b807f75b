package nl2sql

import "strings"

const queryPromptTemplate = `
Based on the table schema below, write a SQL query that answers the user's question.
Only output the SQL query and nothing else.

Schema: {schema}
Question: {question}
SQL Query:
`

const answerPromptTemplate = `
Given the user's question and the results from a SQL query,
write a natural language answer.
If the SQL results are empty, just say you couldn't find any data.

Question: {question}
SQL Results: {results}
Answer:
`

// RenderQueryPrompt fills {schema} and {question}. Substitution is a single
// pass, so placeholder text inside either value is left untouched.
func RenderQueryPrompt(schema, question string) string {
	return strings.NewReplacer("{schema}", schema, "{question}", question).Replace(queryPromptTemplate)
}

// RenderAnswerPrompt fills {question} and {results}.
func RenderAnswerPrompt(question, results string) string {
	return strings.NewReplacer("{question}", question, "{results}", results).Replace(answerPromptTemplate)
}
