package assistant

import (
	"regexp"
	"strings"
)

const (
	topicWiFi      = "wifi"
	topicPrinter   = "printer"
	topicProjector = "projector"
	topicComputer  = "computer"
	topicEmail     = "email"
	topicSoftware  = "software"
	topicGreeting  = "greeting"
)

// topicKeywords is checked in order; the first topic with a matching keyword wins.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{topicWiFi, []string{"wifi", "wi-fi", "wireless", "internet", "network"}},
	{topicPrinter, []string{"printer", "printing", "print"}},
	{topicProjector, []string{"projector", "hdmi", "vga", "boardroom"}},
	{topicComputer, []string{"computer", "laptop", "desktop", "monitor"}},
	{topicEmail, []string{"email", "e-mail", "outlook", "mailbox"}},
	{topicSoftware, []string{"software", "install", "update", "application"}},
}

var greetingPattern = regexp.MustCompile(`\b(hi|hello|hey|greetings|good (morning|afternoon|evening))\b`)

var quickFixes = map[string][]string{
	topicWiFi: {
		"1. Check if WiFi is enabled on your device",
		"2. Try connecting to 'Teleposta_Guest' network",
		"3. Restart your device",
		"4. Contact ICT team if issues persist",
	},
	topicPrinter: {
		"1. Check if printer is powered on",
		"2. Ensure paper is loaded",
		"3. Check for paper jams",
		"4. Restart the printer",
		"5. Contact ICT team for driver issues",
	},
	topicProjector: {
		"1. Connect VGA/HDMI cable to laptop",
		"2. Press Windows + P to extend display",
		"3. Check projector power and input source",
		"4. Contact ICT team for setup assistance",
	},
	topicComputer: {
		"1. Restart the computer",
		"2. Check all cables are connected",
		"3. Try a different power outlet",
		"4. Contact ICT team for hardware issues",
	},
	topicEmail: {
		"1. Check your internet connection",
		"2. Confirm your username and password",
		"3. Restart your email client",
		"4. Contact ICT team to verify mailbox settings",
	},
	topicSoftware: {
		"1. Save your work and restart the application",
		"2. Check for pending updates",
		"3. Reinstall the application if it keeps failing",
		"4. Contact ICT team for licensed software",
	},
}

var genericQuickFix = []string{"Please contact the ICT team for assistance."}

var cannedReplies = map[string]string{
	topicWiFi: "Thanks for reaching out. Let's get your WiFi connection stable:\n" +
		"1. Toggle WiFi off and on, then reconnect to 'Teleposta_Guest'.\n" +
		"2. Forget the network, reconnect and re-enter your credentials.\n" +
		"3. Restart your device to refresh the network adapter.\n" +
		"4. Move closer to the access point and test again.\n" +
		"5. Still dropping? Create a support ticket with your location and extension and the ICT team will assist.",
	topicPrinter: "Thanks for reaching out. Let's get that printer working:\n" +
		"1. Make sure the printer is powered on and shows no error light.\n" +
		"2. Check that paper is loaded and clear any paper jams.\n" +
		"3. Restart the printer and try printing again.\n" +
		"4. If the printer is missing from your computer, create a support ticket so the ICT team can install the driver.",
	topicProjector: "Thanks for reaching out. To get the projector displaying:\n" +
		"1. Connect the VGA or HDMI cable to your laptop.\n" +
		"2. Press Windows + P and choose Duplicate or Extend.\n" +
		"3. Check that the projector is on and set to the right input source.\n" +
		"4. For boardroom setup help, create a support ticket with the room and meeting time.",
	topicComputer: "Thanks for reaching out. Let's try the basics first:\n" +
		"1. Save your work and restart the computer.\n" +
		"2. Check that all cables are firmly connected.\n" +
		"3. Try a different power outlet.\n" +
		"4. If it still fails, create a support ticket with your location and extension.",
	topicEmail: "Thanks for reaching out. For email problems:\n" +
		"1. Check that you are connected to the network.\n" +
		"2. Confirm your username and password, and never share your password in chat.\n" +
		"3. Close and reopen your email client.\n" +
		"4. If messages still fail, create a support ticket and the ICT team will check your mailbox settings.",
	topicSoftware: "Thanks for reaching out. For software installs and updates:\n" +
		"1. Save your work and close the application.\n" +
		"2. Install any pending updates, then restart.\n" +
		"3. For new or licensed software, create a support ticket naming the application you need.",
	topicGreeting: "Hi, I'm GPO, your friendly ICT helper. How can I assist you today?",
}

const defaultReply = "Thanks for reaching out. I can help with WiFi, printers, projectors, computers, email and software. " +
	"Please describe the issue in a little more detail, or create a support ticket and the ICT team will follow up."

// DetectTopic returns the support topic mentioned in message, or "" if none.
// Greetings only count when no support topic matches.
func DetectTopic(message string) string {
	lower := strings.ToLower(message)
	for _, t := range topicKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.topic
			}
		}
	}
	if greetingPattern.MatchString(lower) {
		return topicGreeting
	}
	return ""
}

// CannedReply is the deterministic answer used when no provider responds.
func CannedReply(message string) string {
	if reply, ok := cannedReplies[DetectTopic(message)]; ok {
		return reply
	}
	return defaultReply
}

// QuickFixes returns the checklist for issueType, or a generic entry.
func QuickFixes(issueType string) []string {
	fixes, ok := quickFixes[strings.ToLower(strings.TrimSpace(issueType))]
	if !ok {
		fixes = genericQuickFix
	}
	return append([]string(nil), fixes...)
}

// SuggestedActions returns the quick fixes for the topic detected in message.
func SuggestedActions(message string) []string {
	return QuickFixes(DetectTopic(message))
}
