package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "type" or "max").
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
		case "unsupported_member":
			msg = "{type} はシリアライズできません"
		case "truncated":
			msg = "入力が途中で終わっています"
		case "malformed_presence":
			msg = "存在フラグが不正です"
		case "malformed_length":
			msg = "長さが不正です"
		case "malformed_value":
			msg = "値のエンコードが不正です"
		case "invalid_type":
			msg = "{type} はルート型として使用できません"
		case "invalid_tag":
			msg = "構造体タグが不正です"
		case "max_depth":
			msg = "ネストが上限 {max} を超えました"
		case "io_error":
			msg = "入出力エラー"
		case "handler":
			msg = "カスタムハンドラが失敗しました"
		}
	default: // "en"
		switch code {
		case "unsupported_member":
			msg = "no codec for {type}"
		case "truncated":
			msg = "stream ended before the value was complete"
		case "malformed_presence":
			msg = "presence flag is neither 0 nor 1"
		case "malformed_length":
			msg = "length exceeds the permitted bound"
		case "malformed_value":
			msg = "value encoding is invalid"
		case "invalid_type":
			msg = "{type} cannot be used as a root"
		case "invalid_tag":
			msg = "invalid struct tag"
		case "max_depth":
			msg = "nesting exceeds {max}"
		case "io_error":
			msg = "i/o error"
		case "handler":
			msg = "custom handler failed"
		}
	}
	if msg == "" {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

type translatorBox struct{ Translator }

var currentTranslator atomic.Pointer[translatorBox]

func init() { currentTranslator.Store(&translatorBox{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja"). It is
// safe to call while other goroutines translate.
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(&translatorBox{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(&translatorBox{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().Message(code, data)
}
