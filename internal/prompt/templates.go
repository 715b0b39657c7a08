package prompt

// Field names threaded between pipeline stages.
const (
	FieldProjectDescription = "project_description"
	FieldKeyFunctionalities = "key_functionalities"
	FieldRiskLevel          = "risk_level"
	FieldAiactExtract       = "aiact_extract"
	FieldComplianceGuide    = "compliance_guide"
)

// Fields of the chat template.
const (
	FieldHistory = "history"
	FieldMessage = "message"
)

const summarizerText = `You are an AI Act specialist, formed in european law and regulations. You have been asked to summarize the important points of this project that uses AI technology. You need to provide a concise list with all the key functionalities that makes use of AI in this project, that may fall under the new AI regulation laws.

{project_description}

Detailed summary:`

const riskClassifierText = `You are a legal expert in European Law. Based on the Key AI Functionalities of an AI project described, you must categorize this project in one of the four different risk levels of the AI Act: unacceptable, high, limited, or minimal risk.

Legislation on AI Act risk levels:

The AI Act classifies AI according to its risk: 1) Unacceptable risk is prohibited (e.g. social scoring systems and manipulative AI). 2) High-risk AI systems, which are highly regulated. 3) Limited risk AI systems, subject to lighter transparency obligations: developers and deployers must ensure that end-users are aware that they are interacting with AI (chatbots and deepfakes). 4) Minimal risk, is unregulated (including the majority of AI applications currently available on the EU single market, such as AI enabled video games and spam filters).

1) Prohibited AI systems (Chapter II, Art. 5): The following types of AI system are Prohibited according to the AI Act. AI systems: deploying subliminal, manipulative, or deceptive techniques to distort behaviour and impair informed decision-making, causing significant harm. exploiting vulnerabilities related to age, disability, or socio-economic circumstances to distort behaviour, causing significant harm. biometric categorisation systems inferring sensitive attributes (race, political opinions, trade union membership, religious or philosophical beliefs, sex life, or sexual orientation), except labelling or filtering of lawfully acquired biometric datasets or when law enforcement categorises biometric data. social scoring, i.e., evaluating or classifying individuals or groups based on social behaviour or personal traits, causing detrimental or unfavourable treatment of those people. assessing the risk of an individual committing criminal offenses solely based on profiling or personality traits, except when used to augment human assessments based on objective, verifiable facts directly linked to criminal activity. compiling facial recognition databases by untargeted scraping of facial images from the internet or CCTV footage. inferring emotions in workplaces or educational institutions, except for medical or safety reasons. real-time remote biometric identification (RBI) in publicly accessible spaces for law enforcement, except when: searching for missing persons, abduction victims, and people who have been human trafficked or sexually exploited; preventing substantial and imminent threat to life, or foreseeable terrorist attack; or identifying suspects in serious crimes.

2) High risk AI systems (Chapter III): Some AI systems are considered High risk under the AI Act. Providers of those systems will be subject to additional requirements. Classification rules for high-risk AI systems (Art. 6): High risk AI systems are those used as a safety component or a product covered by EU laws in Annex I AND required to undergo a third-party conformity assessment under those Annex I laws; OR those under Annex III use cases, except if the AI system performs a narrow procedural task; improves the result of a previously completed human activity; detects decision-making patterns or deviations from prior decision-making patterns and is not meant to replace or influence the previously completed human assessment without proper human review; or performs a preparatory task to an assessment relevant for the purpose of the use cases listed in Annex III. AI systems are always considered high-risk if they profile individuals, i.e. automated processing of personal data to assess various aspects of a person's life, such as work performance, economic situation, health, preferences, interests, reliability, behaviour, location or movement.

3) Limited risk AI systems: Limited risk refers to the risks associated with lack of transparency in AI usage. The AI Act introduces specific transparency obligations to ensure that humans are informed when necessary, fostering trust. When using AI systems such as chatbots, humans should be made aware that they are interacting with a machine. Providers also have to ensure that AI-generated content is identifiable, and AI-generated text published to inform the public on matters of public interest must be labelled as artificially generated. This also applies to audio and video content constituting deep fakes.

4) Minimal risk AI systems: The AI Act allows the free use of minimal-risk AI. This includes applications such as AI-enabled video games or spam filters. The vast majority of AI systems currently used in the EU fall into this category.

Project Key AI Functionalities:

{key_functionalities}

Answer, which risk category would this project be classified to:`

const guideGeneratorText = `Using the provided extract from the AI Act legislation and the outlined project key AI functionalities, your task is to create a concise compliance guide. This guide should detail the necessary steps to align with the requirements of the AI Act.

Context:

Project Key AI Functionalities:
{key_functionalities}

AI Act Legislation Extract:
{aiact_extract}

Compliance Requirements:`

const chatText = `You are a helpful and concise assistant.

{history}User: {message}
Assistant:`

// Summarizer condenses a project description into its AI functionalities.
func Summarizer() *Template {
	return MustNew("summarizer", summarizerText, FieldProjectDescription)
}

// RiskClassifier maps the functionalities to an AI Act risk tier.
func RiskClassifier() *Template {
	return MustNew("risk_classifier", riskClassifierText, FieldKeyFunctionalities)
}

// GuideGenerator writes the compliance guide from functionalities and the
// retrieved legislation extract.
func GuideGenerator() *Template {
	return MustNew("guide_generator", guideGeneratorText, FieldKeyFunctionalities, FieldAiactExtract)
}

// Chat renders a conversation transcript ending with the new user message.
// history is empty or a sequence of "Role: content" lines.
func Chat() *Template {
	return MustNew("chat", chatText, FieldHistory, FieldMessage)
}
