package ansi

import "image/color"

// NoopHandler ignores every control function. Embed it to implement only the
// parts of [Handler] a consumer cares about.
type NoopHandler struct{}

var _ Handler = NoopHandler{}

func (NoopHandler) ApplicationCommandReceived([]byte)                 {}
func (NoopHandler) Backspace()                                        {}
func (NoopHandler) Bell()                                             {}
func (NoopHandler) CarriageReturn()                                   {}
func (NoopHandler) CellSizePixels()                                   {}
func (NoopHandler) ClearLine(LineClearMode)                           {}
func (NoopHandler) ClearScreen(ClearMode)                             {}
func (NoopHandler) ClearTabs(TabulationClearMode)                     {}
func (NoopHandler) ClipboardLoad(byte, string)                        {}
func (NoopHandler) ClipboardStore(byte, []byte)                       {}
func (NoopHandler) ConfigureCharset(CharsetIndex, Charset)            {}
func (NoopHandler) Decaln()                                           {}
func (NoopHandler) DeleteChars(int)                                   {}
func (NoopHandler) DeleteLines(int)                                   {}
func (NoopHandler) DesktopNotification(string, string)                {}
func (NoopHandler) DeviceStatus(int)                                  {}
func (NoopHandler) EraseChars(int)                                    {}
func (NoopHandler) Goto(int, int)                                     {}
func (NoopHandler) GotoCol(int)                                       {}
func (NoopHandler) GotoLine(int)                                      {}
func (NoopHandler) HorizontalTabSet()                                 {}
func (NoopHandler) IdentifyTerminal(byte)                             {}
func (NoopHandler) Input(rune)                                        {}
func (NoopHandler) InsertBlank(int)                                   {}
func (NoopHandler) InsertBlankLines(int)                              {}
func (NoopHandler) LineFeed()                                         {}
func (NoopHandler) MoveBackward(int)                                  {}
func (NoopHandler) MoveBackwardTabs(int)                              {}
func (NoopHandler) MoveDown(int)                                      {}
func (NoopHandler) MoveDownCr(int)                                    {}
func (NoopHandler) MoveForward(int)                                   {}
func (NoopHandler) MoveForwardTabs(int)                               {}
func (NoopHandler) MoveUp(int)                                        {}
func (NoopHandler) MoveUpCr(int)                                      {}
func (NoopHandler) PopKeyboardMode(int)                               {}
func (NoopHandler) PopTitle()                                         {}
func (NoopHandler) PrivacyMessageReceived([]byte)                     {}
func (NoopHandler) PushKeyboardMode(KeyboardMode)                     {}
func (NoopHandler) PushTitle()                                        {}
func (NoopHandler) ReportKeyboardMode()                               {}
func (NoopHandler) ReportMode(Mode)                                   {}
func (NoopHandler) ReportModifyOtherKeys()                            {}
func (NoopHandler) RequestStatusString(string)                        {}
func (NoopHandler) ResetColor(int)                                    {}
func (NoopHandler) ResetState()                                       {}
func (NoopHandler) RestoreCursorPosition()                            {}
func (NoopHandler) ReverseIndex()                                     {}
func (NoopHandler) SaveCursorPosition()                               {}
func (NoopHandler) ScrollDown(int)                                    {}
func (NoopHandler) ScrollUp(int)                                      {}
func (NoopHandler) SemanticPromptMark(SemanticPromptMark, int)        {}
func (NoopHandler) SetActiveCharset(int)                              {}
func (NoopHandler) SetColor(int, color.Color)                         {}
func (NoopHandler) SetCursorStyle(CursorStyle)                        {}
func (NoopHandler) SetDynamicColor(string, int, string)               {}
func (NoopHandler) SetHyperlink(*Hyperlink)                           {}
func (NoopHandler) SetKeyboardMode(KeyboardMode, KeyboardModeBehavior) {}
func (NoopHandler) SetKeypadApplicationMode()                         {}
func (NoopHandler) SetMode(Mode)                                      {}
func (NoopHandler) SetModifyOtherKeys(ModifyOtherKeys)                {}
func (NoopHandler) SetScrollingRegion(int, int)                       {}
func (NoopHandler) SetTerminalCharAttribute(TerminalCharAttribute)    {}
func (NoopHandler) SetTitle(string)                                   {}
func (NoopHandler) SetUserVar(string, string)                         {}
func (NoopHandler) SetWorkingDirectory(string)                        {}
func (NoopHandler) SixelReceived([][]uint16, []byte)                  {}
func (NoopHandler) StartOfStringReceived([]byte)                      {}
func (NoopHandler) Substitute()                                       {}
func (NoopHandler) Tab(int)                                           {}
func (NoopHandler) TextAreaSizeChars()                                {}
func (NoopHandler) TextAreaSizePixels()                               {}
func (NoopHandler) UnsetKeypadApplicationMode()                       {}
func (NoopHandler) UnsetMode(Mode)                                    {}
