package gateway

import (
	"fmt"
	"strings"
)

const searchTask = `Task:
1. Analyze the dataset and find items that semantically match the User Query.
2. Return a valid JSON object with two properties:
   - "results": an array of the matching item objects (maintain original structure).
   - "insight": a short, witty, sci-fi style sentence explaining why you chose them.

Constraint: Return strictly valid JSON.`

const vaultTask = `Task:
1. Filter files based on the query.
2. Return a valid JSON object: { "results": [files], "comment": "string" }.
3. The "comment" must sound like a high-tech security system.

Constraint: Return strictly valid JSON.`

const chatPersona = `You are an expert tutor/analyst.`

const visionPrompt = `Analyze this image for the archive.
Task: Describe location, technology, and hidden details.
Tone: Cinematic, sci-fi, and analytical. Keep it under 50 words.`

func buildSearchPrompt(section, query, dataset string) string {
	var b strings.Builder
	b.WriteString("You are the intelligent search core for the \"ENFOCO\" dashboard.\n")
	fmt.Fprintf(&b, "Section: %s\n", section)
	fmt.Fprintf(&b, "User Query: \"%s\"\n\n", query)
	fmt.Fprintf(&b, "Dataset:\n%s\n\n", dataset)
	b.WriteString(searchTask)
	return b.String()
}

func buildVaultPrompt(query, manifest string) string {
	var b strings.Builder
	b.WriteString("You are the Vault Security AI (Level 9 Clearance).\n")
	fmt.Fprintf(&b, "User Query: \"%s\"\n\n", query)
	fmt.Fprintf(&b, "File Manifest:\n%s\n\n", manifest)
	b.WriteString(vaultTask)
	return b.String()
}

func buildChatPrompt(contextText, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context Data:\n\"%s\"\n\n", contextText)
	b.WriteString(chatPersona + "\n")
	fmt.Fprintf(&b, "User Message: \"%s\"\n\n", message)
	b.WriteString("Answer concisely (max 2-3 sentences), professional and futuristic tone.")
	return b.String()
}
