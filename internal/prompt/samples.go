package prompt

import "encoding/json"

// SampleInterviewResponses is the reference answer set used when no interview
// responses are configured.
func SampleInterviewResponses() json.RawMessage {
	return json.RawMessage(`{
  "accountability": {
    "question": "What was the most difficult experience in your previous job, and what do you think was the cause? What actions did you personally take to improve the situation?",
    "answer": "In my previous role, we faced a critical system outage that affected customer services. I took responsibility by immediately coordinating with the team, implementing a rollback plan, and conducting a thorough post-mortem to prevent future occurrences."
  },
  "self_improvement": {
    "question": "Is there anything you are currently studying outside of work hours related to our business? Please be specific.",
    "answer": "I'm currently learning Japanese (JLPT N3 level) and studying Node.js microservices architecture through online courses to better align with Minma's tech stack."
  },
  "work_ethic_result_orientation": {
    "question": "What are your long-term career goals? Why do you think our company is the best place to achieve them?",
    "answer": "I aim to become a technical lead in e-commerce platforms. Minma's focus on marketplace innovation and Japan-Vietnam collaboration provides the perfect environment for both technical growth and cultural learning."
  },
  "company_knowledge_alignment": {
    "question": "Please describe our business in your own words.",
    "answer": "Minma operates Curashi no Market, connecting users with 400+ service categories, and Senkyaku for SME digitalization. The company bridges Japanese market needs with Vietnamese technical talent."
  },
  "weekend_activities": {
    "question": "How do you usually spend your weekends and holidays to refresh yourself?",
    "answer": "I enjoy reading technology blogs, practicing Japanese language, and hiking with friends. I also contribute to open-source projects related to web development."
  }
}`)
}

// SampleTeamFeedback shows the expected array format for team feedback files.
func SampleTeamFeedback() json.RawMessage {
	return json.RawMessage(`[
  "Team Member 1 (Role: Senior Developer): Clear and professional communication, adapted well to different conversation styles. Showed customer-focused thinking when discussing past projects. Good understanding of Japanese business etiquette. Positive, would fit well with the development team.",
  "Team Member 2 (Role: QA Engineer): Good technical explanations and thoughtful questions. Emphasized quality and continuous learning. Comfortable in a multicultural environment. Very positive overall.",
  "Team Member 3 (Role: Product Manager): Understood business requirements well and asked relevant questions about user experience. Respectful and professional. Highly recommended."
]`)
}
