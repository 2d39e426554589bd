package provider

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	ollamaapi "github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"temetro/model"
)

// The provider layer owns all conversions between the app's
// provider-agnostic messages/tools and each SDK's native types, so nothing
// outside this package imports an SDK.

func toOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch {
		case msg.Role == "system":
			result = append(result, openai.SystemMessage(msg.Content))

		case msg.Role == "assistant" && len(msg.ToolCalls) > 0:
			// Assistant turn that requested tools: content is empty,
			// the tool_calls field reproduces the executed call verbatim.
			calls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				calls[i] = openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: tc.Arguments,
						},
					},
				}
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls},
			})

		case msg.Role == "assistant":
			result = append(result, openai.AssistantMessage(msg.Content))

		case msg.Role == "tool":
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))

		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func toOpenAITools(tools []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	result := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, tool := range tools {
		params := openai.FunctionParameters{
			"type":       tool.InputSchema.Type,
			"properties": tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			params["required"] = tool.InputSchema.Required
		}
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  params,
			},
		)
	}
	return result
}

// toAnthropicMessages splits out system text (Anthropic takes it as a
// separate parameter) and maps tool-call/tool-result turns onto tool_use
// and tool_result blocks.
func toAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var system []anthropic.TextBlockParam
	result := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch {
		case msg.Role == "system":
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})

		case msg.Role == "assistant" && len(msg.ToolCalls) > 0:
			blocks := make([]anthropic.ContentBlockParamUnion, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				blocks[i] = anthropic.NewToolUseBlock(tc.ID, json.RawMessage(tc.Arguments), tc.Name)
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))

		case msg.Role == "assistant":
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))

		case msg.Role == "tool":
			result = append(result, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false),
			))

		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return result, system
}

func toAnthropicTools(tools []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema.Required = tool.InputSchema.Required
		}
		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			result[i].OfTool.Description = anthropic.String(tool.Description)
		}
	}
	return result
}

func toOllamaMessages(messages []model.Message) []ollamaapi.Message {
	result := make([]ollamaapi.Message, 0, len(messages))
	for _, msg := range messages {
		m := ollamaapi.Message{Role: msg.Role, Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			var args ollamaapi.ToolCallFunctionArguments
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
				args = ollamaapi.ToolCallFunctionArguments{}
			}
			m.ToolCalls = append(m.ToolCalls, ollamaapi.ToolCall{
				Function: ollamaapi.ToolCallFunction{Name: tc.Name, Arguments: args},
			})
		}
		result = append(result, m)
	}
	return result
}

// toOllamaTools maps the flat string-property schemas this app declares
// onto Ollama's tool parameter types.
func toOllamaTools(tools []mcptypes.Tool) []ollamaapi.Tool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]ollamaapi.Tool, 0, len(tools))
	for _, tool := range tools {
		params := ollamaapi.ToolFunctionParameters{
			Type:       tool.InputSchema.Type,
			Required:   tool.InputSchema.Required,
			Properties: make(map[string]ollamaapi.ToolProperty),
		}
		for name, raw := range tool.InputSchema.Properties {
			prop := ollamaapi.ToolProperty{}
			if m, ok := raw.(map[string]any); ok {
				if t, ok := m["type"].(string); ok {
					prop.Type = ollamaapi.PropertyType{t}
				}
				if d, ok := m["description"].(string); ok {
					prop.Description = d
				}
			}
			params.Properties[name] = prop
		}
		result = append(result, ollamaapi.Tool{
			Type: "function",
			Function: ollamaapi.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  params,
			},
		})
	}
	return result
}

// ParseToolArguments parses a JSON argument string into a map, returning an
// empty map when parsing fails.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return make(map[string]any)
	}
	return args
}
