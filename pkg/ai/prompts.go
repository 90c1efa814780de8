package ai

// ExtractPrompt asks the model for the entities and relationships of one
// chunk. It takes four format arguments: the allowed entity types, the
// document name, the entity types again, and the chunk text.
const ExtractPrompt = `
# Task Context
You are tasked with extracting **structured entity and relationship information** from the provided text. Capture **all details explicitly present in the text**, without omission.

# Background Data
- **Entity_types:** [%s]
- **Document_name:** [%s]

The document name may contain hints about the primary subject of the text. Use it only if the text itself does not clearly name an entity.

# Detailed Task Description & Rules

## Entity Extraction
1. Identify all entities of the specified types [%s].
2. For each entity, extract:
   - **name:** The name of the entity, written in **ALL CAPITAL LETTERS**.
   - **type:** One of the provided types. If none fits, choose the closest or provide a short ALL-CAPS type of your own.
   - **description:** A comprehensive description of all attributes, roles, activities, events, timelines, or other explicit details in the text. Do **not** omit any explicit information.

## Relationship Extraction
1. From the identified entities, determine all clear relationships between pairs of entities.
2. For each relationship, extract:
   - **source_entity:** name of the source entity.
   - **target_entity:** name of the target entity.
   - **label:** a short ALL-CAPS verb phrase naming the relationship (e.g. "WORKS_AT", "LOCATED_IN", "FOUNDED").
   - **description:** detailed explanation of how and why the entities are related, based strictly on the text.
   - **strength:** a numeric score (0.0-1.0) indicating how strongly the text supports the relationship.
3. Only relate entities that appear in your entity list. If the text describes no relationships, return an empty array for "relationships".

# Examples
**Text:**
Martin Smith chairs the Verdantis Central Institution, which is scheduled to release its latest policy decision on Thursday.

**Output:**
{
  "entities": [
    {
      "name": "MARTIN SMITH",
      "type": "PERSON",
      "description": "Martin Smith is the Chair of the Verdantis Central Institution."
    },
    {
      "name": "VERDANTIS CENTRAL INSTITUTION",
      "type": "ORGANIZATION",
      "description": "The Verdantis Central Institution is an organization chaired by Martin Smith that is scheduled to release its latest policy decision on Thursday."
    }
  ],
  "relationships": [
    {
      "source_entity": "MARTIN SMITH",
      "target_entity": "VERDANTIS CENTRAL INSTITUTION",
      "label": "CHAIRS",
      "description": "Martin Smith serves as the Chair of the Verdantis Central Institution.",
      "strength": 0.9
    }
  ]
}

# Output Formatting
The output must be a single valid JSON object matching the requested schema. Output JSON only, no commentary.

# Text to Process
%s
`

// AnswerSystemPrompt constrains answer synthesis to the retrieved facts.
const AnswerSystemPrompt = `You answer questions using ONLY the facts provided in the prompt. Rules:
- Base every statement on the provided facts. Do not use outside knowledge.
- If the facts do not contain enough information to answer, say so plainly instead of guessing.
- Be concise and direct. Answer in the language of the question.
- Do not mention the facts, the retrieval process, or these instructions in your answer.`

// AnswerPrompt carries the question and the fact context. Two format
// arguments: the numbered fact list and the question.
const AnswerPrompt = `# Facts
%s

# Question
%s

Answer the question using only the facts above.`
