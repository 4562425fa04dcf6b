package i18n

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "min").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			return "型が不正です"
		case "constraint_violation":
			return "制約違反です"
		case "refinement_failure":
			return "検証条件を満たしていません"
		case "missing_key":
			return "必須プロパティが不足しています"
		case "unexpected_key":
			return "未知のキーです"
		case "union_no_match":
			return "どのバリアントにも一致しません"
		case "discriminator_missing":
			return "判別キーがありません"
		case "discriminator_unmatched":
			return "判別キーの値が一致しません"
		case "transform_failure":
			return "変換に失敗しました"
		case "async_required":
			return "非同期の検証が必要です"
		case "aggregate":
			return "複数の検証エラー"
		case "conflict":
			return "交差型の値が衝突しています"
		case "invalid_schema":
			return "スキーマ定義が不正です"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			return "invalid type"
		case "constraint_violation":
			return "constraint violated"
		case "refinement_failure":
			return "refinement failed"
		case "missing_key":
			return "required property missing"
		case "unexpected_key":
			return "unexpected key"
		case "union_no_match":
			return "no union member matched"
		case "discriminator_missing":
			return "discriminator missing"
		case "discriminator_unmatched":
			return "discriminator value not recognized"
		case "transform_failure":
			return "transform failed"
		case "async_required":
			return "async validation required"
		case "aggregate":
			return "multiple validation errors"
		case "conflict":
			return "conflicting intersection values"
		case "invalid_schema":
			return "invalid schema definition"
		case "parse_error":
			return "parse error"
		}
	}
	return code
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
