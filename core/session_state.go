package core

// PendingCommand returns a copy of the pending command, if any.
func (s *Session) PendingCommand() (PendingCommand, bool) {
	if s == nil {
		return PendingCommand{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingCommand{}, false
	}
	return *s.pending, true
}

func (s *Session) PendingAction() string {
	cmd, ok := s.PendingCommand()
	if !ok {
		return ""
	}
	return cmd.Action
}

func (s *Session) SetPendingCommand(cmd PendingCommand) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cmd
	s.pending = &next
}

func (s *Session) ClearPendingCommand() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// ClearPendingCommandIf clears the pending command only when it was registered
// for action. Clearing an absent command is a no-op.
func (s *Session) ClearPendingCommandIf(action string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || s.pending.Action != action {
		return false
	}
	s.pending = nil
	return true
}

// ReplacePendingCommandIf swaps the pending command for next when the current
// one was registered for action.
func (s *Session) ReplacePendingCommandIf(action string, next PendingCommand) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || s.pending.Action != action {
		return false
	}
	replacement := next
	s.pending = &replacement
	return true
}
