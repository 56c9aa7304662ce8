package prompt

// Scripted answers prompts from fixed lists, in order. Once a list runs
// out the question's default is returned. Every question is recorded in
// Asked, so tests can assert that nothing was prompted.
type Scripted struct {
	Confirms []bool
	Texts    []string
	Choices  []string
	Asked    []string
}

func (s *Scripted) Confirm(question string, def bool) (bool, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Confirms) == 0 {
		return def, nil
	}
	ans := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return ans, nil
}

func (s *Scripted) Text(question, def string) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Texts) == 0 {
		return def, nil
	}
	ans := s.Texts[0]
	s.Texts = s.Texts[1:]
	if ans == "" {
		return def, nil
	}
	return ans, nil
}

func (s *Scripted) Choice(question string, options []string, def string) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Choices) == 0 {
		return def, nil
	}
	ans := s.Choices[0]
	s.Choices = s.Choices[1:]
	return ans, nil
}
