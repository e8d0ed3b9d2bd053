package errmatch

// InvalidLabel returns a MessageFunc producing "<label> <text>", or
// "<label> is invalid" when text is empty.
func InvalidLabel(text string) MessageFunc {
	if text == "" {
		text = "is invalid"
	}
	return func(item ErrorItem) string {
		return item.Context.Label() + " " + text
	}
}
