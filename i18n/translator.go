package i18n

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "model" or "path").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			msg = "型が不正です"
		case "required":
			msg = "必須プロパティが不足しています"
		case "unknown_key":
			msg = "未知のキーです"
		case "duplicate_key":
			msg = "キーが重複しています"
		case "invalid_format":
			msg = "形式が不正です"
		case "invalid_enum":
			msg = "許可されていない値です"
		case "too_small":
			msg = "小さすぎます"
		case "too_big":
			msg = "大きすぎます"
		case "too_short":
			msg = "短すぎます"
		case "too_long":
			msg = "長すぎます"
		case "validation_failed":
			msg = "検証に失敗しました"
		case "build_failed":
			msg = "インスタンスの構築に失敗しました"
		case "serialize_failed":
			msg = "シリアライズに失敗しました"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			msg = "invalid type"
		case "required":
			msg = "required property missing"
		case "unknown_key":
			msg = "unknown key"
		case "duplicate_key":
			msg = "duplicate key"
		case "invalid_format":
			msg = "invalid format"
		case "invalid_enum":
			msg = "value not allowed"
		case "too_small":
			msg = "too small"
		case "too_big":
			msg = "too big"
		case "too_short":
			msg = "too short"
		case "too_long":
			msg = "too long"
		case "validation_failed":
			msg = "validation failed"
		case "build_failed":
			msg = "build failed"
		case "serialize_failed":
			msg = "serialize failed"
		}
	}
	if msg == "" {
		return code
	}
	if m := data["model"]; m != "" {
		msg += " (" + m + ")"
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
