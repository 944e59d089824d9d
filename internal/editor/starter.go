package editor

// StarterHTML is the document a new workspace opens with.
const StarterHTML = `<h1>Argument for Universal Basic Income (UBI)</h1>
<p>+ UBI provides a financial floor, reducing poverty (<span class="highlight-symbol">∴</span> improving health outcomes).</p>
<p>+ It stimulates the economy by increasing aggregate demand (<span class="highlight-variable">D</span>).</p>
<p>+ Prepares society for automation-driven job displacement for <span class="highlight-symbol">∀</span> workers.</p>
<p>= Therefore, implementing a UBI is a necessary and beneficial policy for modern economies.</p>
<blockquote><p>- [Objection to: Premise 2] UBI is too expensive and would cause massive inflation.</p></blockquote>
<blockquote><blockquote><p>+ The cost can be offset by streamlining existing welfare programs and tax reforms.</p></blockquote></blockquote>`
