package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/kgraphrag/backend/pkg/ai"
	"github.com/kgraphrag/backend/pkg/common"

	"github.com/pkoukk/tiktoken-go"
)

const (
	answerEncoding     = "o200k_base"
	answerTokenBudget  = 3000
	answerTemperature  = 0.2
	confidenceTopShare = 0.6
	confidenceVolShare = 0.4
)

// InsufficientInfoAnswer is returned verbatim when retrieval finds nothing
// to ground an answer on.
const InsufficientInfoAnswer = "I don't have enough information in the knowledge graph to answer that question."

// Answer retrieves facts for the question and synthesizes a grounded
// answer from them. When retrieval comes back empty the fixed
// InsufficientInfoAnswer is returned with zero confidence and no model
// call is made.
func (q *QueryClient) Answer(ctx context.Context, groupID, question string, topK int) (*common.Answer, error) {
	facts, err := q.Search(ctx, groupID, question, topK)
	if err != nil {
		return nil, err
	}

	if len(facts) == 0 {
		return &common.Answer{
			Question:     question,
			Answer:       InsufficientInfoAnswer,
			Sources:      []common.FactSource{},
			EntitiesUsed: []string{},
			Confidence:   0,
		}, nil
	}

	used, factList, err := buildFactContext(facts)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(ai.AnswerPrompt, factList, question)
	answerText, err := q.aiClient.GenerateCompletion(ctx, prompt,
		ai.WithSystemPrompts(ai.AnswerSystemPrompt),
		ai.WithTemperature(answerTemperature),
	)
	if err != nil {
		return nil, err
	}

	sources := make([]common.FactSource, 0, len(used))
	entitySet := map[string]bool{}
	entitiesUsed := []string{}
	for _, f := range used {
		sources = append(sources, common.FactSource{
			Fact:   f.Text,
			Source: f.Source,
			Score:  f.Score,
		})
		for _, name := range f.Entities {
			if name == "" || entitySet[name] {
				continue
			}
			entitySet[name] = true
			entitiesUsed = append(entitiesUsed, name)
		}
	}

	return &common.Answer{
		Question:     question,
		Answer:       strings.TrimSpace(answerText),
		Sources:      sources,
		EntitiesUsed: entitiesUsed,
		Confidence:   confidence(used),
	}, nil
}

// buildFactContext numbers the facts into the prompt context, stopping
// when the token budget is reached. At least one fact always makes it in.
func buildFactContext(facts []common.Fact) ([]common.Fact, string, error) {
	enc, err := tiktoken.GetEncoding(answerEncoding)
	if err != nil {
		return nil, "", err
	}

	var sb strings.Builder
	used := make([]common.Fact, 0, len(facts))
	total := 0
	for i, f := range facts {
		line := fmt.Sprintf("%d. %s (source: %s)\n", i+1, f.Text, f.Source)
		tokens := len(enc.Encode(line, nil, nil))
		if total+tokens > answerTokenBudget && len(used) > 0 {
			break
		}
		sb.WriteString(line)
		total += tokens
		used = append(used, f)
	}
	return used, sb.String(), nil
}

// confidence scores an answer from the quality of its best fact and the
// volume of supporting facts: 0.6 * top score + 0.4 * min(n/5, 1).
func confidence(facts []common.Fact) float64 {
	if len(facts) == 0 {
		return 0
	}
	top := 0.0
	for _, f := range facts {
		if f.Score > top {
			top = f.Score
		}
	}
	volume := float64(len(facts)) / 5
	if volume > 1 {
		volume = 1
	}
	return clampScore(confidenceTopShare*top + confidenceVolShare*volume)
}
