package ai

// ClassifierPrompt drives the structured demand detection. The response
// format schema pins user_demand to the closed enum.
const ClassifierPrompt = `You are an expert at detecting user demand. ` +
	`Summarize the topic of the user message as a short context label, ` +
	`and choose one appropriate label as the user demands from the following options:
- Chat
- CreateImage`

// ImagePromptBuilderPrompt turns a conversation into one generation prompt.
const ImagePromptBuilderPrompt = `You are an expert prompt writer for an image generation model. ` +
	`Given the conversation so far, write a single concise prompt describing the image ` +
	`the user wants. Reply with the prompt text only, no commentary.`
