package cli

var RunChat = runChat
