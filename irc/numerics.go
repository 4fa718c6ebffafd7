package irc

// Server reply numerics.  Comments show the parameter layout after the
// client's own nick, trailing parameter prefixed with ':'.
const (
	rplWelcome  = 1 // :Welcome message
	rplYourhost = 2 // :Your host is...
	rplCreated  = 3 // :This server was created...
	rplMyinfo   = 4 // <servername> <version> <umodes> <chan modes>
	rplIsupport = 5 // 1*13<TOKEN[=value]> :are supported by this server

	rplTracelink       = 200 // Link <version> <destination> <next server>
	rplTraceconnecting = 201 // Try. <class> <server>
	rplTracehandshake  = 202 // H.S. <class> <server>
	rplTraceunknown    = 203 // ???? <class> [<ip>]
	rplTraceoperator   = 204 // Oper <class> <nick>
	rplTraceuser       = 205 // User <class> <nick>
	rplTraceserver     = 206 // Serv <class> <int>S <int>C <server>
	rplTraceservice    = 207 // Service <class> <name> <type>
	rplTracenewtype    = 208 // <newtype> 0 <client name>
	rplTraceclass      = 209 // Class <class> <count>
	rplTracereconnect  = 210
	rplTracelog        = 261 // File <logfile> <debug level>
	rplTraceend        = 262 // <server> <version> :End of TRACE

	rplStatslinkinfo = 211 // <linkname> <sendq> <sent msgs> ...
	rplStatscommands = 212 // <command> <count> [<bytes> <remote count>]
	rplStatscline    = 213
	rplStatsnline    = 214
	rplStatsiline    = 215
	rplStatskline    = 216
	rplStatsqline    = 217
	rplStatsyline    = 218
	rplEndofstats    = 219 // <letter> :End of STATS report
	rplStatsvline    = 240
	rplStatslline    = 241
	rplStatsuptime   = 242 // :Server Up <days> days <time>
	rplStatsoline    = 243 // O <hostmask> * <name>
	rplStatshline    = 244
	rplStatsdebug    = 249
	rplStatsconn     = 250 // :Highest connection count: ...

	rplUmodeis = 221 // <modes>

	rplLuserclient   = 251 // :<int> users and <int> services on <int> servers
	rplLuserop       = 252 // <int> :operator(s) online
	rplLuserunknown  = 253 // <int> :unknown connection(s)
	rplLuserchannels = 254 // <int> :channels formed
	rplLuserme       = 255 // :I have <int> clients and <int> servers
	rplAdminme       = 256 // <server> :Admin info
	rplAdminloc1     = 257 // :<info>
	rplAdminloc2     = 258 // :<info>
	rplAdminmail     = 259 // :<info>
	rplTryagain      = 263 // <command> :Try again later
	rplLocalusers    = 265 // [<u> <m>] :Current local users
	rplGlobalusers   = 266 // [<u> <m>] :Current global users

	rplWhoiscertfp = 276 // <nick> :has client certificate fingerprint <fp>

	rplAway            = 301 // <nick> :<away message>
	rplUserhost        = 302 // :*1<reply> *( " " <reply> )
	rplUnaway          = 305 // :You are no longer marked as being away
	rplNowaway         = 306 // :You have been marked as being away
	rplWhoisregnick    = 307 // <nick> :is a registered nick
	rplWhoisuser       = 311 // <nick> <user> <host> * :<realname>
	rplWhoisserver     = 312 // <nick> <server> :<server info>
	rplWhoisoperator   = 313 // <nick> :is an IRC operator
	rplWhowasuser      = 314 // <nick> <user> <host> * :<realname>
	rplEndofwho        = 315 // <name> :End of WHO list
	rplWhoisidle       = 317 // <nick> <idle> [<signon>] :seconds idle
	rplEndofwhois      = 318 // <nick> :End of WHOIS list
	rplWhoischannels   = 319 // <nick> :*( (@/+) <channel> " " )
	rplWhoisspecial    = 320 // <nick> :<text>
	rplListstart       = 321 // Channel :Users Name
	rplList            = 322 // <channel> <# visible> :<topic>
	rplListend         = 323 // :End of LIST
	rplChannelmodeis   = 324 // <channel> <modes> <mode params>
	rplCreationtime    = 329 // <channel> <creation epoch>
	rplWhoisaccount    = 330 // <nick> <account> :is logged in as
	rplNotopic         = 331 // <channel> :No topic set
	rplTopic           = 332 // <channel> :<topic>
	rplTopicwhotime    = 333 // <channel> <nick> <setat>
	rplWhoisbot        = 335 // <nick> :is a bot
	rplWhoisactually   = 338 // <nick> <host|ip> :is actually using host
	rplInviting        = 341 // <nick> <channel>
	rplInvitelist      = 346 // <channel> <invite mask>
	rplEndofinvitelist = 347 // <channel> :End of invite list
	rplExceptlist      = 348 // <channel> <exception mask>
	rplEndofexceptlist = 349 // <channel> :End of exception list
	rplVersion         = 351 // <version> <servername> :<comments>
	rplWhoreply        = 352 // <channel> <user> <host> <server> <nick> <flags> :<hops> <realname>
	rplNamreply        = 353 // <=/*/@> <channel> :1*(@/ /+nick)
	rplWhospcrpl       = 354 // WHOX reply, field layout per request
	rplLinks           = 364 // <mask> <server> :<hopcount> <info>
	rplEndoflinks      = 365 // <mask> :End of LINKS list
	rplEndofnames      = 366 // <channel> :End of NAMES list
	rplBanlist         = 367 // <channel> <ban mask> [<setter> <setat>]
	rplEndofbanlist    = 368 // <channel> :End of ban list
	rplEndofwhowas     = 369 // <nick> :End of WHOWAS
	rplInfo            = 371 // :<info>
	rplMotd            = 372 // :- <text>
	rplEndofinfo       = 374 // :End of INFO
	rplMotdstart       = 375 // :- <servername> Message of the day -
	rplEndofmotd       = 376 // :End of MOTD command
	rplWhoishost       = 378 // <nick> :is connecting from <host>
	rplWhoismodes      = 379 // <nick> :is using modes <modes>
	rplYoureoper       = 381 // :You are now an IRC operator
	rplRehashing       = 382 // <config file> :Rehashing
	rplTime            = 391 // <servername> :<local time>

	errUnknownerror     = 400 // <command> :<info>
	errNosuchnick       = 401 // <nick> :No such nick/channel
	errNosuchserver     = 402 // <server> :No such server
	errNosuchchannel    = 403 // <channel> :No such channel
	errCannotsendtochan = 404 // <channel> :Cannot send to channel
	errToomanychannels  = 405 // <channel> :You have joined too many channels
	errWasnosuchnick    = 406 // <nick> :There was no such nickname
	errToomanytargets   = 407 // <target> :Duplicate recipients
	errNoorigin         = 409 // :No origin specified
	errInvalidcapcmd    = 410 // <command> :Unknown CAP command
	errNorecipient      = 411 // :No recipient given
	errNotexttosend     = 412 // :No text to send
	errInputtoolong     = 417 // :Input line was too long
	errUnknowncommand   = 421 // <command> :Unknown command
	errNomotd           = 422 // :MOTD file missing
	errNonicknamegiven  = 431 // :No nickname given
	errErroneusnickname = 432 // <nick> :Erroneous nickname
	errNicknameinuse    = 433 // <nick> :Nickname in use
	errNickcollision    = 436 // <nick> :Nickname collision KILL
	errUsernotinchannel = 441 // <nick> <channel> :User not in channel
	errNotonchannel     = 442 // <channel> :You're not on that channel
	errUseronchannel    = 443 // <user> <channel> :is already on channel
	errNotregistered    = 451 // :You have not registered
	errNeedmoreparams   = 461 // <command> :Not enough parameters
	errAlreadyregistred = 462 // :Already registered
	errPasswdmismatch   = 464 // :Password incorrect
	errYourebannedcreep = 465 // :You're banned from this server
	errKeyset           = 467 // <channel> :Channel key already set
	errChannelisfull    = 471 // <channel> :Cannot join channel (+l)
	errUnknownmode      = 472 // <char> :Unknown mode for <channel>
	errInviteonlychan   = 473 // <channel> :Cannot join channel (+i)
	errBannedfromchan   = 474 // <channel> :Cannot join channel (+b)
	errBadchankey       = 475 // <channel> :Cannot join channel (+k)
	errBadchanmask      = 476 // <channel> :Bad channel mask
	errNochanmodes      = 477 // <channel> :Channel doesn't support modes
	errBanlistfull      = 478 // <channel> <char> :Ban list is full
	errNopriviledges    = 481 // :Permission denied, not an operator
	errChanoprivsneeded = 482 // <channel> :You're not a channel operator
	errCantkillserver   = 483 // :You can't kill a server
	errRestricted       = 484 // :Your connection is restricted
	errNooperhost       = 491 // :No O-lines for your host

	errUmodeunknownflag = 501 // :Unknown mode flag
	errUsersdontmatch   = 502 // :Can't change mode for other users

	rplStarttls = 670 // :STARTTLS successful, proceed with TLS handshake
	errStarttls = 691 // :STARTTLS failed

	rplWhoissecure = 671 // <nick> :is using a secure connection

	rplMononline    = 730 // :target[,target2]*
	rplMonoffline   = 731 // :target[,target2]*
	rplMonlist      = 732 // :target[,target2]*
	rplEndofmonlist = 733 // :End of MONITOR list
	errMonlistfull  = 734 // <limit> <targets> :Monitor list is full

	rplLoggedin    = 900 // <nick>!<ident>@<host> <account> :You are now logged in
	rplLoggedout   = 901 // <nick>!<ident>@<host> :You are now logged out
	errNicklocked  = 902 // :You must use a nick assigned to you
	rplSaslsuccess = 903 // :SASL authentication successful
	errSaslfail    = 904 // :SASL authentication failed
	errSasltoolong = 905 // :SASL message too long
	errSaslaborted = 906 // :SASL authentication aborted
	errSaslalready = 907 // :You have already authenticated using SASL
	rplSaslmechs   = 908 // <mechanisms> :are available SASL mechanisms
)
