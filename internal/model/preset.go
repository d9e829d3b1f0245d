package model

import "github.com/iamvkosarev/zenith-ai/pkg/local"

// Preset is a persona: a display identity plus the system instruction sent
// verbatim to the generation backend.
type Preset struct {
	ID           string
	Name         local.TextSet
	Icon         string
	SystemPrompt string
	Color        string
}

var Presets = []Preset{
	{
		ID: "general",
		Name: local.NewSet("General Assistant",
			local.NewTrans(local.Rus, "Общий ассистент"), local.NewTrans(local.Deu, "Allgemeiner Assistent"),
			local.NewTrans(local.Fra, "Assistant général"), local.NewTrans(local.Spa, "Asistente general"),
			local.NewTrans(local.Ita, "Assistente generale"), local.NewTrans(local.Jpn, "総合アシスタント"),
			local.NewTrans(local.Chn, "通用助手"), local.NewTrans(local.Kor, "일반 어시스턴트"),
			local.NewTrans(local.Ara, "مساعد عام"), local.NewTrans(local.Tur, "Genel Asistan"),
			local.NewTrans(local.Por, "Assistente Geral"),
		),
		Icon:         "MessageSquare",
		SystemPrompt: "You are Zenith AI, a helpful general assistant. Be concise and professional. Current date: February 2026.",
		Color:        "#6366f1",
	},
	{
		ID: "coding",
		Name: local.NewSet("Coding Architect",
			local.NewTrans(local.Rus, "Архитектор кода"), local.NewTrans(local.Deu, "Code-Architekt"),
			local.NewTrans(local.Fra, "Architecte de code"), local.NewTrans(local.Spa, "Arquitecto de código"),
			local.NewTrans(local.Ita, "Architetto del codice"), local.NewTrans(local.Jpn, "コーディングアーキテクト"),
			local.NewTrans(local.Chn, "编程架构师"), local.NewTrans(local.Kor, "코딩 아키텍트"),
			local.NewTrans(local.Ara, "مهندس البرمجيات"), local.NewTrans(local.Tur, "Kod Mimarı"),
			local.NewTrans(local.Por, "Arquiteto de Código"),
		),
		Icon:         "Code",
		SystemPrompt: "You are an expert software architect. Provide clean, optimized code with explanations.",
		Color:        "#3b82f6",
	},
	{
		ID: "creative",
		Name: local.NewSet("Creative Muse",
			local.NewTrans(local.Rus, "Креативная муза"), local.NewTrans(local.Deu, "Kreative Muse"),
			local.NewTrans(local.Fra, "Muse créative"), local.NewTrans(local.Spa, "Musa creativa"),
			local.NewTrans(local.Ita, "Musa creativa"), local.NewTrans(local.Jpn, "クリエイティブミューズ"),
			local.NewTrans(local.Chn, "创意缪斯"), local.NewTrans(local.Kor, "창의적 뮤즈"),
			local.NewTrans(local.Ara, "ملهمة إبداعية"), local.NewTrans(local.Tur, "Yaratıcı İlham"),
			local.NewTrans(local.Por, "Muse Criativa"),
		),
		Icon:         "Palette",
		SystemPrompt: "You are an artistic visionary. You can help with design and even describe images to generate.",
		Color:        "#ec4899",
	},
	{
		ID: "zen",
		Name: local.NewSet("Zen Mode",
			local.NewTrans(local.Rus, "Zen Режим"), local.NewTrans(local.Deu, "Zen-Modus"),
			local.NewTrans(local.Fra, "Mode Zen"), local.NewTrans(local.Spa, "Modo Zen"),
			local.NewTrans(local.Ita, "Modalità Zen"), local.NewTrans(local.Jpn, "禅モード"),
			local.NewTrans(local.Chn, "禅模式"), local.NewTrans(local.Kor, "젠 모드"),
			local.NewTrans(local.Ara, "وضع زن"), local.NewTrans(local.Tur, "Zen Modu"),
			local.NewTrans(local.Por, "Modo Zen"),
		),
		Icon:         "Sparkles",
		SystemPrompt: "You are a Zen master. Minimalistic speech. Focus on clarity and peace.",
		Color:        "#ffffff",
	},
}

// DefaultPreset is the persona active on a fresh session.
func DefaultPreset() Preset {
	return Presets[0]
}

func PresetByID(id string) (Preset, bool) {
	for _, preset := range Presets {
		if preset.ID == id {
			return preset, true
		}
	}
	return Preset{}, false
}
