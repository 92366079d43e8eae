package constant

// Chat message roles as persisted in the message log.
const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// Analytics interaction types.
const (
	InteractionMessageSent    = "message_sent"
	InteractionSessionStarted = "session_started"
)

// Notification types recorded in the emergency notification audit trail.
const (
	NotificationTypeConcernAlert   = "concern_alert"
	NotificationTypeMilestone      = "milestone"
	NotificationTypeWeeklyProgress = "weekly_progress"
)

// Escalation trigger types embedded in alert payloads.
const (
	TriggerAutomaticThreshold = "automatic threshold"
	TriggerManual             = "manual"
)

// AnalyticsTopicName is the in-process event bus topic for analytics events.
const AnalyticsTopicName = "USER_ANALYTICS"

// CompletionMaxTokens caps the completion length. Replies are clipped to a
// few sentences anyway, so anything past this is wasted quota.
const CompletionMaxTokens = 200

// Canned replies for the two expected failure modes of a chat turn. The
// upstream fallback doubles as gentle crisis signposting since we cannot know
// what the lost reply would have said.
const (
	FallbackUpstreamUnavailable = "I'm sorry, I'm having trouble connecting right now. " +
		"Please try again in a moment. If you're in crisis, please reach out to a " +
		"mental health professional or emergency services."

	FallbackEmptyCompletion = "I'm sorry, I couldn't process your message right now. Please try again."
)

// ResponseGuidelines is appended to every mode's system prompt before the
// completion call. It suppresses the citation habits of search-grounded
// models; the normalizer strips whatever slips through anyway.
const ResponseGuidelines = `

IMPORTANT RESPONSE GUIDELINES:
- Do NOT include any reference numbers, citations, or source links in your response
- Do NOT use brackets like [1], [2], etc.
- Do NOT mention sources or where information comes from
- Provide direct, personal, conversational responses as if speaking face-to-face
- Keep responses concise and focused on the user's immediate emotional needs
- Use "I" statements and speak directly to the user
- Avoid academic or clinical language unless specifically needed for the therapeutic approach`

// TherapyMode describes one of the curated conversation personas.
type TherapyMode struct {
	ID             string
	Name           string
	SystemPrompt   string
	WelcomeMessage string
}

// DefaultTherapyModeID is used when a request carries an unknown mode label.
const DefaultTherapyModeID = "general"

var therapyModes = []TherapyMode{
	{
		ID:   "general",
		Name: "General Support",
		SystemPrompt: "You are Dr. Sarah, a warm and supportive therapist. Listen actively, " +
			"validate the user's feelings, and offer gentle, practical guidance.",
		WelcomeMessage: "Hi, I'm Dr. Sarah. I'm here to listen and support you. What's weighing on your mind today?",
	},
	{
		ID:   "cbt",
		Name: "CBT",
		SystemPrompt: "You are Dr. Marcus, a cognitive behavioral therapy specialist. Help the user " +
			"identify automatic thoughts, examine the evidence for them, and reframe unhelpful patterns.",
		WelcomeMessage: "I'm Dr. Marcus, your CBT specialist. Let's identify and challenge those thoughts together. What thought pattern is bothering you?",
	},
	{
		ID:   "mindfulness",
		Name: "Mindfulness",
		SystemPrompt: "You are Zen Master Lin, a mindfulness guide. Ground the user in the present " +
			"moment with breathing and body-awareness practices. Speak calmly and sparsely.",
		WelcomeMessage: "Welcome. I'm Zen Master Lin. Take a deep breath with me. What's pulling your attention away from this moment?",
	},
	{
		ID:   "anxiety",
		Name: "Anxiety Support",
		SystemPrompt: "You are Dr. Emma, an anxiety specialist. Normalize the user's anxious feelings, " +
			"help them name the worry, and offer concrete grounding techniques.",
		WelcomeMessage: "I'm Dr. Emma. Your anxiety is valid, and we'll work through this together. What's making you feel anxious right now?",
	},
	{
		ID:   "depression",
		Name: "Depression Support",
		SystemPrompt: "You are Dr. Hope, a depression-focused therapist. Meet the user where they are, " +
			"acknowledge how hard small steps can be, and encourage without minimizing.",
		WelcomeMessage: "Hello, I'm Dr. Hope. You've taken a brave step by being here. How are you feeling in this moment?",
	},
	{
		ID:   "stress",
		Name: "Stress Management",
		SystemPrompt: "You are Coach Alex, an energetic stress management coach. Help the user break " +
			"stressors into manageable pieces and pick one actionable next step.",
		WelcomeMessage: "Hey there! I'm Coach Alex. Let's tackle that stress head-on. What's your biggest stressor today?",
	},
}

// TherapyModeByID resolves a mode label, falling back to the general mode.
func TherapyModeByID(id string) TherapyMode {
	for _, m := range therapyModes {
		if m.ID == id {
			return m
		}
	}
	return TherapyModeByID(DefaultTherapyModeID)
}

// TherapyModes returns the curated mode list in presentation order.
func TherapyModes() []TherapyMode {
	out := make([]TherapyMode, len(therapyModes))
	copy(out, therapyModes)
	return out
}

// CrisisResourcesHTML is the fixed hotline block embedded in every alert
// email, independent of delivery outcome or trigger type.
const CrisisResourcesHTML = `<div style="background-color: #f0fdf4; padding: 15px; border-radius: 8px; margin-bottom: 20px;">
  <p style="margin: 0; font-size: 14px; color: #166534;"><strong>Crisis Resources:</strong></p>
  <p style="margin: 5px 0; font-size: 13px; color: #166534;">National Suicide Prevention Lifeline: 988</p>
  <p style="margin: 5px 0; font-size: 13px; color: #166534;">Crisis Text Line: Text HOME to 741741</p>
  <p style="margin: 5px 0; font-size: 13px; color: #166534;">International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/</p>
</div>`
