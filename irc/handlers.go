package irc

import (
	"strconv"
	"strings"
	"time"
)

// Numeric replies address the client by nick in their first parameter;
// the text worth showing starts at the second.
func rawText(r *Reply) string {
	if len(r.Params) > 1 {
		return strings.Join(r.Params[1:], " ")
	}
	return strings.Join(r.Params, " ")
}

func appendRaw(ctx Context, r *Reply, category string) {
	ctx.Append(MessageAppend{
		Type:        MessageInfo,
		Text:        rawText(r),
		Time:        r.Time,
		IsRaw:       true,
		RawCategory: category,
	})
}

func appendInfo(ctx Context, r *Reply, text string) {
	ctx.Append(MessageAppend{
		Type: MessageInfo,
		Text: text,
		Time: r.Time,
	})
}

func appendErrorText(ctx Context, r *Reply, text string) {
	ctx.Append(MessageAppend{
		Type: MessageError,
		Text: text,
		Time: r.Time,
	})
}

func appendError(ctx Context, r *Reply) {
	appendErrorText(ctx, r, rawText(r))
}

func parseEpoch(s string) time.Time {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

func rawHandler(category string) handlerFunc {
	return func(ctx Context, r *Reply) {
		appendRaw(ctx, r, category)
	}
}

func errorHandler() handlerFunc {
	return func(ctx Context, r *Reply) {
		appendError(ctx, r)
	}
}
