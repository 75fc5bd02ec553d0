package locale

// Message keys used outside the question blueprint.
const (
	KeyWelcomeTitle        = "welcome.title"
	KeyWelcomeSubtitle     = "welcome.subtitle"
	KeyWelcomeStart        = "welcome.start"
	KeyLanguageLabel       = "language.label"
	KeyYes                 = "buttons.yes"
	KeyNo                  = "buttons.no"
	KeyBack                = "buttons.back"
	KeyNext                = "buttons.next"
	KeyClear               = "buttons.clear"
	KeyViewClick           = "viewLink.click"
	KeyViewHere            = "viewLink.here"
	KeyViewToView          = "viewLink.toView"
	KeyCompletionTitle     = "completion.title"
	KeyCompletionSubtitle  = "completion.subtitle"
	KeyCompletionWelcome   = "completion.welcomePackButton"
	KeySubmitError         = "errors.submit"
	KeyInvalidAnswer       = "errors.invalid"
	KeyNationalityFallback = "placeholders.nationality"
)

// RequiredKeys lists every key a translation file must define.
func RequiredKeys() []string {
	keys := []string{
		KeyWelcomeTitle, KeyWelcomeSubtitle, KeyWelcomeStart, KeyLanguageLabel,
		KeyYes, KeyNo, KeyBack, KeyNext, KeyClear,
		KeyViewClick, KeyViewHere, KeyViewToView,
		KeyCompletionTitle, KeyCompletionSubtitle, KeyCompletionWelcome,
		KeySubmitError, KeyInvalidAnswer, KeyNationalityFallback,
	}
	for _, bp := range blueprint {
		keys = append(keys, bp.promptKey, bp.placeholderKey)
	}

	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, key := range keys {
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
