package oracle

import "fmt"

func classifyPrompt(term string) string {
	return fmt.Sprintf(`What category does the word %q belong to?
Choose from: living thing, object, place, food, vehicle, nature, technology, other.
Return only the category name.`, term)
}

func answerPrompt(question, term string) string {
	return fmt.Sprintf(`
The secret word is %[2]q.

<instructions>
Think step by step:
1. Is this a yes/no question about properties of %[2]s?
2. What specific property or characteristic is being asked about?
3. Does %[2]s clearly have this property?

Examples:
- "Is it edible?" about "apple" -> Yes (apples are food)
- "Is it metal?" about "apple" -> No (apples are organic, not metal)
- "Can you hold it?" about "mountain" -> No (mountains are too large)
- "Is it alive?" about "tree" -> Yes (trees are living organisms)
- "Is it bigger than a car?" about "house" -> Yes (houses are typically larger)
- "Is it used for transportation?" about "bicycle" -> Yes (bicycles transport people)
- "Does it have wings?" about "airplane" -> Yes (airplanes have wings)
- "Is it an animal?" about "dog" -> Yes (dogs are animals)
- "Is it big?" about "house" -> Maybe (depends on context, could be big or small)
- "Is it plastic?" about "chair" -> Maybe (depends on the chair type)
- "Does it store treasure?" about "chest" -> Sometimes (it depends on the chest)

Rules:
- Answer "Unclear" if the question isn't a yes/no question, is too vague, or you're unsure
- Answer "Yes" ONLY if the question is ALWAYS, EVERY TIME true about %[2]s
- Answer "Sometimes" if the question is sometimes true and sometimes false about %[2]s
- Answer "No" if the question is usually false about %[2]s
- Answer "Maybe" only if it's ambiguous or depends on context/interpretation

Answer with ONLY one word: Unclear, Yes, No, Maybe, Sometimes.
</instructions>

User said: %[1]q
Secret word is: %[2]q
Your Answer:`, question, term)
}
