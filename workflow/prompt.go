package workflow

import (
	"fmt"
	"strings"

	"github.com/notfabo/projeto-multiagents/llm"
	"github.com/notfabo/projeto-multiagents/types"
)

// supervisorPrompt builds the closed-token routing instruction for the
// supervisor node. The answer set is the roster roles plus FinishToken;
// anything else is rejected by Decide.
func supervisorPrompt(roles []string) string {
	options := append(append(make([]string, 0, len(roles)+1), roles...), FinishToken)
	var b strings.Builder
	b.WriteString("You are the supervisor of a team of AI agents. ")
	b.WriteString("Your task is to analyze the conversation and decide which agent should act next.\n\n")
	fmt.Fprintf(&b, "Available agents: %s\n\n", strings.Join(roles, ", "))
	b.WriteString("Based on the last message, choose the next step. ")
	fmt.Fprintf(&b, "Is the task complete and the final answer given? If so, respond with the word '%s'.\n", FinishToken)
	b.WriteString("Otherwise, respond with the exact name of one of the agents in the list.\n\n")
	fmt.Fprintf(&b, "Your answer MUST BE STRICTLY ONE of the following options: %s\n", strings.Join(options, ", "))
	b.WriteString("Do NOT add any other word, punctuation or explanation.")
	return b.String()
}

// agentPrompt builds the fixed role instruction for a specialist node.
func agentPrompt(spec types.AgentSpec) string {
	return fmt.Sprintf(
		"You are a %s. Your responsibilities are: %s. "+
			"Based on the conversation history, perform your task. "+
			"Respond concisely and stay focused on your specialty, "+
			"handing control back to the supervisor or finishing the task.",
		spec.Role, spec.Responsibilities)
}

// conversationMessages converts the full conversation state into LLM chat
// messages, prefixed with the given system instruction. Specialists and the
// supervisor see the unfiltered history; attention isolation is a prompt
// design concern, not a structural one.
func conversationMessages(system string, state *types.State) []llm.Message {
	msgs := make([]llm.Message, 0, state.Len()+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, m := range state.Messages() {
		if m.Sender == types.SenderUser {
			msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: m.Content})
			continue
		}
		msgs = append(msgs, llm.Message{
			Role:    llm.RoleAssistant,
			Content: m.Content,
			Name:    m.Sender,
		})
	}
	return msgs
}
