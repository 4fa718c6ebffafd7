package irc

var errorHandlers = map[int]handlerFunc{
	errUnknownerror:     errorHandler(),
	errNosuchnick:       handleNoSuchNick,
	errNosuchserver:     errorHandler(),
	errNosuchchannel:    errorHandler(),
	errCannotsendtochan: errorHandler(),
	errToomanychannels:  errorHandler(),
	errWasnosuchnick:    handleWasNoSuchNick,
	errToomanytargets:   errorHandler(),
	errNoorigin:         errorHandler(),
	errInvalidcapcmd:    errorHandler(),
	errNorecipient:      errorHandler(),
	errNotexttosend:     errorHandler(),
	errInputtoolong:     errorHandler(),
	errUnknowncommand:   errorHandler(),
	errUsernotinchannel: errorHandler(),
	errNotonchannel:     errorHandler(),
	errUseronchannel:    errorHandler(),
	errNotregistered:    errorHandler(),
	errNeedmoreparams:   errorHandler(),
	errAlreadyregistred: errorHandler(),
	errPasswdmismatch:   errorHandler(),
	errYourebannedcreep: handleBanned,
	errKeyset:           errorHandler(),
	errChannelisfull:    errorHandler(),
	errUnknownmode:      errorHandler(),
	errInviteonlychan:   errorHandler(),
	errBannedfromchan:   errorHandler(),
	errBadchankey:       errorHandler(),
	errBadchanmask:      errorHandler(),
	errNochanmodes:      errorHandler(),
	errBanlistfull:      errorHandler(),
	errNopriviledges:    errorHandler(),
	errChanoprivsneeded: errorHandler(),
	errCantkillserver:   errorHandler(),
	errRestricted:       handleRestricted,
	errNooperhost:       errorHandler(),
	errUmodeunknownflag: errorHandler(),
	errUsersdontmatch:   errorHandler(),
}

// handleNoSuchNick suggests a WHOIS when the failed lookup was
// WHOWAS-initiated within the hint window.
func handleNoSuchNick(ctx Context, r *Reply) {
	target := r.Param(1)
	if ctx.WhowasHint(target) {
		appendErrorText(ctx, r, rawText(r)+" (they may be online under another nick; try /whois "+target+")")
		return
	}
	appendError(ctx, r)
}

func handleWasNoSuchNick(ctx Context, r *Reply) {
	ctx.NoteWhowas(r.Param(1))
	appendError(ctx, r)
}

// handleBanned is one of the two numerics allowed to terminate the
// connection.
func handleBanned(ctx Context, r *Reply) {
	appendError(ctx, r)
	ctx.Append(MessageAppend{
		Type:        MessageInfo,
		Text:        "connection blocked: " + rawText(r),
		Time:        r.Time,
		IsRaw:       true,
		RawCategory: RawServer,
	})
	ctx.Disconnect()
}

func handleRestricted(ctx Context, r *Reply) {
	appendError(ctx, r)
	ctx.Disconnect()
}
