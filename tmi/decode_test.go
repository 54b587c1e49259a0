package tmi

import "testing"

func TestDecodeChatMessage(t *testing.T) {
	raw := "@badges=broadcaster/1;color=#FF0000;display-name=TestUser;id=abc123;mod=0;user-id=12345 :testuser!testuser@testuser.tmi.twitch.tv PRIVMSG #testchannel :Hello World"
	msg := parseMessage(raw)
	chat := decodeChatMessage(msg)

	if chat.Channel != "testchannel" {
		t.Errorf("Channel: got %q", chat.Channel)
	}
	if chat.Message != "Hello World" {
		t.Errorf("Message: got %q", chat.Message)
	}
	if chat.IsAction {
		t.Errorf("expected IsAction false")
	}
	if chat.DisplayName != "TestUser" {
		t.Errorf("DisplayName: got %q", chat.DisplayName)
	}
	if chat.IsBroadcaster != true {
		t.Errorf("expected IsBroadcaster true")
	}
}

func TestDecodeChatMessageActionStripsMePrefix(t *testing.T) {
	raw := ":testuser!testuser@testuser.tmi.twitch.tv PRIVMSG #testchannel :.me waves"
	chat := decodeChatMessage(parseMessage(raw))
	if !chat.IsAction {
		t.Fatalf("expected IsAction true")
	}
	if chat.Message != "waves" {
		t.Errorf("expected .me prefix stripped, got %q", chat.Message)
	}
}

func TestDecodeChatMessageNonce(t *testing.T) {
	raw := "@client-nonce=abc123 :testuser!testuser@testuser.tmi.twitch.tv PRIVMSG #testchannel :hi"
	chat := decodeChatMessage(parseMessage(raw))
	if chat.Nonce != "abc123" {
		t.Errorf("Nonce: got %q", chat.Nonce)
	}
}

func TestUserNoticeTypeOf(t *testing.T) {
	cases := map[string]UserNoticeType{
		"sub":             UserNoticeSub,
		"resub":           UserNoticeResub,
		"subgift":         UserNoticeSubGift,
		"anonsubgift":     UserNoticeAnonSubGift,
		"submysterygift":  UserNoticeSubMysteryGift,
		"giftpaidupgrade": UserNoticeGiftPaidUpgrade,
		"raid":            UserNoticeRaid,
		"announcement":    UserNoticeAnnouncement,
		"something-weird": UserNoticeUnknown,
	}
	for raw, want := range cases {
		if got := userNoticeTypeOf(raw); got != want {
			t.Errorf("userNoticeTypeOf(%q): got %q, want %q", raw, got, want)
		}
	}
}

func TestDecodeUserNoticeParamsExtracted(t *testing.T) {
	raw := "@msg-id=raid;msg-param-displayName=Raider;msg-param-viewerCount=42;login=raider;display-name=Raider :tmi.twitch.tv USERNOTICE #testchannel :raider is raiding with 42 viewers!"
	un := decodeUserNotice(parseMessage(raw))
	if un.Type != UserNoticeRaid {
		t.Fatalf("expected raid type, got %q", un.Type)
	}
	if un.MsgParams["viewerCount"] != "42" {
		t.Errorf("expected msg-param-viewerCount extracted, got %+v", un.MsgParams)
	}
}

func TestDecodeRoomStateFull(t *testing.T) {
	raw := "@emote-only=0;followers-only=-1;r9k=0;slow=0;subs-only=0;room-id=12345 :tmi.twitch.tv ROOMSTATE #testchannel"
	rs := decodeRoomState(parseMessage(raw))
	if !rs.Full {
		t.Fatalf("expected Full=true when all five fields are present")
	}
	if rs.FollowersOnly != -1 {
		t.Errorf("FollowersOnly: got %d", rs.FollowersOnly)
	}
}

func TestDecodeRoomStatePartial(t *testing.T) {
	raw := "@slow=30 :tmi.twitch.tv ROOMSTATE #testchannel"
	rs := decodeRoomState(parseMessage(raw))
	if rs.Full {
		t.Fatalf("expected Full=false for a single-field change")
	}
	if rs.ChangedField != "slow" {
		t.Errorf("ChangedField: got %q", rs.ChangedField)
	}
	if rs.Slow != 30 {
		t.Errorf("Slow: got %d", rs.Slow)
	}
}

func TestDecodeClearChatKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ClearChatKind
	}{
		{
			name: "chat cleared",
			raw:  ":tmi.twitch.tv CLEARCHAT #testchannel",
			want: ClearChatChatCleared,
		},
		{
			name: "permanent ban",
			raw:  ":tmi.twitch.tv CLEARCHAT #testchannel :baduser",
			want: ClearChatUserBan,
		},
		{
			name: "timeout",
			raw:  "@ban-duration=600 :tmi.twitch.tv CLEARCHAT #testchannel :baduser",
			want: ClearChatUserTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := decodeClearChat(parseMessage(tt.raw))
			if cc.Kind != tt.want {
				t.Errorf("Kind: got %d, want %d", cc.Kind, tt.want)
			}
		})
	}
}

func TestDecodeGlobalUserStateMod(t *testing.T) {
	raw := "@mod=1;user-id=555;display-name=Bot :tmi.twitch.tv GLOBALUSERSTATE"
	gus := decodeGlobalUserState(parseMessage(raw))
	if !gus.IsMod {
		t.Errorf("expected IsMod true")
	}
	if gus.UserID != "555" {
		t.Errorf("UserID: got %q", gus.UserID)
	}
}
