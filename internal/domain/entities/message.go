package entities

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	Sender       Sender `json:"sender"`
	Text         string `json:"text"`
	IsFileNotice bool   `json:"is_file_notice"`
}

func UserMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text}
}

func BotMessage(text string) Message {
	return Message{Sender: SenderBot, Text: text}
}

func FileNotice(text string) Message {
	return Message{Sender: SenderUser, Text: text, IsFileNotice: true}
}
